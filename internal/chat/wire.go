package chat

import "encoding/json"

// Gateway frames are JSON envelopes. The server pushes "hello" after the
// socket opens, "dispatch" for events; the client sends "request" and gets
// a matching "response" correlated by nonce.
const (
	opHello    = "hello"
	opDispatch = "dispatch"
	opRequest  = "request"
	opResponse = "response"
)

type frame struct {
	Op    string          `json:"op"`
	Type  string          `json:"type,omitempty"` // event name or request action
	Nonce string          `json:"nonce,omitempty"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// dispatch event names
const (
	evMessageCreate = "message_create"
	evReactionAdd   = "reaction_add"
)

// request actions
const (
	actSendMessage   = "send_message"
	actFetchMessage  = "fetch_message"
	actEditMessage   = "edit_message"
	actAddReaction   = "add_reaction"
	actDeleteMessage = "delete_message"
	actResolveUser   = "resolve_user"
	actResolveRole   = "resolve_role"
	actListChannels  = "list_channels"
)

// errUserNotFound is the error string the platform reports for a dead user
// id; mapped to ErrUserNotFound on the client side.
const errUserNotFound = "unknown user"

type helloData struct {
	SelfID  string `json:"self_id"`
	Session string `json:"session"`
}

// MessageEvent is an incoming chat message.
type MessageEvent struct {
	ChannelID   string   `json:"channel_id"`
	ChannelName string   `json:"channel_name"`
	MessageID   string   `json:"message_id"`
	AuthorID    string   `json:"author_id"`
	AuthorRoles []string `json:"author_roles,omitempty"`
	Text        string   `json:"text"`
}

// ReactionEvent is an emoji added to a message.
type ReactionEvent struct {
	ChannelID       string `json:"channel_id"`
	MessageID       string `json:"message_id"`
	MessageAuthorID string `json:"message_author_id"`
	AuthorID        string `json:"author_id"`
	Emoji           string `json:"emoji"`
}

type sendMessageReq struct {
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
}

type sendMessageResp struct {
	MessageID string `json:"message_id"`
}

type messageRef struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

type fetchMessageResp struct {
	Text string `json:"text"`
}

type editMessageReq struct {
	messageRef
	Text string `json:"text"`
}

type reactionReq struct {
	messageRef
	Emoji string `json:"emoji"`
}

type resolveUserReq struct {
	UserID string `json:"user_id"`
}

type resolveRoleReq struct {
	ChannelID string `json:"channel_id"`
	Name      string `json:"name"`
}

type mentionResp struct {
	Mention string `json:"mention"`
}

type listChannelsResp struct {
	Channels []ChannelInfo `json:"channels"`
}
