// Package chat is the client side of the bot's chat platform.
//
// The Gateway interface is everything the rest of the bot knows about chat:
// send/edit/delete messages, reactions, user/role mention resolution and
// channel listing, plus incoming message and reaction events.
//
// Client implements Gateway over a websocket gateway speaking JSON frames:
//   - the server pushes "hello" (self id) and "dispatch" (events);
//   - the client sends "request" frames and receives "response" frames
//     correlated by a uuid nonce;
//   - outbound requests pass a rate limiter before hitting the socket;
//   - the read loop reconnects with capped exponential backoff and fails
//     any in-flight request on connection loss, so callers always get an
//     answer or an error within their context deadline.
package chat
