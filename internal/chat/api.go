package chat

import "context"

// ========================= high-level API =========================

func (c *Client) SendMessage(ctx context.Context, channelID, text string) (string, error) {
	var out sendMessageResp
	err := c.request(ctx, actSendMessage, sendMessageReq{ChannelID: channelID, Text: text}, &out)
	if err != nil {
		return "", err
	}
	return out.MessageID, nil
}

func (c *Client) FetchMessage(ctx context.Context, channelID, messageID string) (string, error) {
	var out fetchMessageResp
	ref := messageRef{ChannelID: channelID, MessageID: messageID}
	if err := c.request(ctx, actFetchMessage, ref, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *Client) EditMessage(ctx context.Context, channelID, messageID, text string) error {
	req := editMessageReq{
		messageRef: messageRef{ChannelID: channelID, MessageID: messageID},
		Text:       text,
	}
	return c.request(ctx, actEditMessage, req, nil)
}

func (c *Client) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	req := reactionReq{
		messageRef: messageRef{ChannelID: channelID, MessageID: messageID},
		Emoji:      emoji,
	}
	return c.request(ctx, actAddReaction, req, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return c.request(ctx, actDeleteMessage, messageRef{ChannelID: channelID, MessageID: messageID}, nil)
}

func (c *Client) ResolveUser(ctx context.Context, userID string) (string, error) {
	var out mentionResp
	if err := c.request(ctx, actResolveUser, resolveUserReq{UserID: userID}, &out); err != nil {
		return "", err
	}
	return out.Mention, nil
}

func (c *Client) ResolveRole(ctx context.Context, channelID, name string) (string, error) {
	var out mentionResp
	if err := c.request(ctx, actResolveRole, resolveRoleReq{ChannelID: channelID, Name: name}, &out); err != nil {
		return "", err
	}
	return out.Mention, nil
}

func (c *Client) ListChannels(ctx context.Context) ([]ChannelInfo, error) {
	var out listChannelsResp
	if err := c.request(ctx, actListChannels, struct{}{}, &out); err != nil {
		return nil, err
	}
	return out.Channels, nil
}
