// Package bot is the glue around chat, store and the server directory that
// implements the housing tracker. The bot:
//   - listens for prefixed chat commands (##open, ##close, ##sweep, ##wish,
//     ##unwish, ##cookies, ##assemble_reports and their aliases);
//   - resolves the target plot from the channel name plus free-text district
//     and ward/plot numbers;
//   - drives the plot lifecycle against the per-ward spreadsheet store,
//     one full read-mutate-write cycle per command;
//   - announces openings (with a size+district role ping and wishlist
//     callouts) and annotates the original announcement when a plot sells;
//   - runs the prime-time scheduler: a one-minute tick that, at the
//     configured minute of each hour, scans every ward and posts one
//     aggregated heads-up per server to its registered reporting channel.
//
// Lifecycle:
//   - create with New(gateway, store, directory);
//   - optionally UseCookies / SetTimezone / SetScanMinute;
//   - Attach(client) to wire the gateway event hooks;
//   - Start() launches the scheduler, Stop() halts it.
//
// The server directory and the cookie jar are small JSON documents with
// mutex-guarded Load/Save; commands that mutate them persist immediately.
package bot
