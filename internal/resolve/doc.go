// Package resolve turns utterances and tagged entity trees into device
// commands.
//
// Free text is lower-cased and split on " and "; each sub-command is then
// resolved on its own:
//
//   - location: substring scan of the location table, last match in table
//     order wins, default is the first location;
//   - target: the first item keyword (table order) present as a word, then,
//     when no item matched or the item requires one, the first action keyword;
//   - state: an action's fixed state, else the first word matching the active
//     pattern, else "ON".
//
// Tagged trees skip all of this and read the slots directly.
package resolve
