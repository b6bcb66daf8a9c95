// meta/meta.go
package meta

// MAX_TURNS caps a headless game so that a stuck simulation always ends.
const MAX_TURNS = 2000

// REPLAY_FORMAT_VERSION is the newest replay format this build reads and writes.
const REPLAY_FORMAT_VERSION = 1

// PIECES_PER_PLAYER is the number of pieces in a standard game.
const PIECES_PER_PLAYER = 4

const APP_NAME = "parchis"
