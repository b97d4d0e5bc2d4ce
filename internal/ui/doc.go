// Package ui implements Kitchen's terminal interface with Bubble Tea.
//
// # Screens
//
//   - Home: the "Popular Tags" strip above the "Popular Recipes" list. Tab
//     moves focus between them, enter opens the selected tag or recipe.
//   - Tag: the recipes carrying one tag.
//   - Detail: every field of one recipe in a scrollable viewport, with
//     bulleted ingredients and numbered instructions.
//   - Logs: the tail of Kitchen's own log file, colored by level. It follows
//     new lines until the user scrolls up or presses Space.
//
// Esc goes back one screen, H returns home, L toggles the log view, ? shows
// every key binding and / searches the tag strip.
//
// # Data
//
// Screens read exclusively through queries.Hooks. On entering a screen the
// model observes that screen's queries (so the background refresher keeps
// them current) and issues a fetch command for each. View then renders from
// Peek, so a fetch never blocks drawing. A command that waits on
// query.Cache.Watch turns every cache change into a message, which triggers
// a redraw.
//
// Each list panel has three states: "Loading..." until the first result
// settles, a red error panel showing the envelope's message when the fetch
// failed, and the data otherwise.
//
// # Themes
//
// Nightfox, Kanagawa and Slate are available. T cycles them and the choice
// is saved to prefs.toml. Recipe difficulty is colored per theme.
//
// # Refresh
//
// r asks the refresher for an immediate pass. Requests closer together than
// the refresher allows are dropped and the command bar says so.
package ui
