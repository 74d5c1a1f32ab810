// meta/meta.go
package meta

// DEFAULT_DEPTH defines how many moves ahead the search looks.
const DEFAULT_DEPTH = 5

// PARALLEL_DEPTH defines how many levels of the search dispatch moves to the pool.
const PARALLEL_DEPTH = 3

// DEFAULT_WEIGHT defines the weight of each evaluation sub-score.
const DEFAULT_WEIGHT = .33

// MAX_TURNS defines the number of moves after which a simulated game is stopped.
const MAX_TURNS = 1000

// GAMES defines the number of games played per agent in an experiment.
const GAMES = 20

// SERVER_ADDR defines where the HTTP advisor listens.
const SERVER_ADDR = ":8080"
