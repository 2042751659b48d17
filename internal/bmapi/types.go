package bmapi

type PlayerId int64
type SteamId int64
type ShardId string

// A single entry of the time played leaderboard.
// Duration is the number of seconds played within the queried period.
// SteamId stays zero until an identifier lookup fills it in
type Player struct {
	Name     string
	Id       PlayerId
	Duration int
	SteamId  SteamId
}
