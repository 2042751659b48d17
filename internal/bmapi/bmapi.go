package bmapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"squadtop/internal/common"

	"github.com/rs/zerolog/log"
)

// Battlemetrics schema
const BM_SCHEMA = "https://api.battlemetrics.com"

// Routes inside the battlemetrics API
const ROUTE_LEADERBOARD = "/servers/%s/relationships/leaderboards/time"
const ROUTE_PLAYER = "/players/%d"

// The leaderboard endpoint rejects page sizes above this
const MAX_PAGE_SIZE = 200

// Returned on 429 responses so callers can honor the server provided delay
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (err *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", err.RetryAfter)
}

type BmApi struct {
	schema string
	token  string
	shards []ShardId
	proxy  common.Proxy
}

func NewBmApi(token string, shards []ShardId, timeout time.Duration) BmApi {

	var bmapi BmApi

	bmapi.schema = BM_SCHEMA
	bmapi.token = token
	bmapi.shards = shards
	bmapi.proxy = common.NewProxy(map[string]string{
		"Accept":        "application/json",
		"Authorization": "Bearer " + token,
	}, timeout)

	return bmapi
}

// Raw leaderboard rows for the provided period, from every shard.
// Shards fail independently: a shard that errors simply contributes nothing.
// Without a token there is nothing to do, so no request is made at all
func (bmapi *BmApi) Leaderboard(ctx context.Context, period Period, pageSize int) []Player {

	if bmapi.token == "" {
		log.Error().Msg("No battlemetrics token provided, not fetching anything")
		return nil
	}
	if pageSize > MAX_PAGE_SIZE {
		pageSize = MAX_PAGE_SIZE
	}

	var players []Player
	for _, shard := range bmapi.shards {
		bmapi.fetchShard(ctx, shard, period, pageSize, &players)
	}
	return players
}

func (bmapi *BmApi) fetchShard(ctx context.Context, shard ShardId, period Period, pageSize int, players *[]Player) {

	rawurl := bmapi.schema + fmt.Sprintf(ROUTE_LEADERBOARD, shard)
	params := url.Values{}
	params.Set("page[size]", strconv.Itoa(pageSize))
	params.Set("filter[period]", period.String())

	// Request
	reply, err := bmapi.proxy.Get(ctx, rawurl, params)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Could not fetch leaderboard from shard %s: %v", shard, err))
		return
	}

	// A bad request usually means the period layout was rejected,
	// so try exactly once more with the alternate layout
	if reply.Status == common.BAD_REQUEST {
		log.Warn().Msg(fmt.Sprintf("Shard %s rejected period %s, retrying with the alternate layout", shard, period))
		params.Set("filter[period]", period.Alternative())
		if reply, err = bmapi.proxy.Get(ctx, rawurl, params); err != nil {
			log.Error().Msg(fmt.Sprintf("Could not fetch leaderboard from shard %s: %v", shard, err))
			return
		}
	}
	if reply.Status != common.OK {
		log.Error().Msg(fmt.Sprintf("Shard %s answered with status %d", shard, reply.Status))
		return
	}

	// Decode
	rows, err := UnmarshalLeaderboard(reply.Body)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Leaderboard response from shard %s is not correctly formatted: %v", shard, err))
		return
	}
	log.Debug().Msg(fmt.Sprintf("Got %d rows from shard %s", len(rows), shard))

	*players = append(*players, rows...)
}

// Resolve the steam id of a single player.
// Zero with no error means the player has no steam identifier
func (bmapi *BmApi) SteamId(ctx context.Context, id PlayerId) (SteamId, error) {

	rawurl := bmapi.schema + fmt.Sprintf(ROUTE_PLAYER, id)
	params := url.Values{}
	params.Set("include", "identifier")
	params.Set("filter[identifiers]", "steamID")

	reply, err := bmapi.proxy.Get(ctx, rawurl, params)
	if err != nil {
		return 0, err
	}

	switch reply.Status {
	case common.OK:
		return UnmarshalSteamId(reply.Body)
	case common.RATE_LIMIT_EXCEEDED:
		return 0, &RateLimitedError{RetryAfter: reply.RetryAfter}
	default:
		return 0, fmt.Errorf("identifier lookup for player %d answered with status %d", id, reply.Status)
	}
}
