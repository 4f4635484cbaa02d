package endpoint

import (
	"sync"

	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/schema"
)

const (
	PathHelp                   = "/help"
	PathSummonerStatus         = "/lol-summoner/v1/status"
	PathCurrentSummoner        = "/lol-summoner/v1/current-summoner"
	PathSummonerByID           = "/lol-summoner/v1/summoners/:id"
	PathSummonerByPUUID        = "/lol-summoner/v2/summoners/puuid/:puuid"
	PathCurrentSummonerMatches = "/lol-match-history/v1/products/lol/current-summoner/matches"
	PathMatchesByPUUID         = "/lol-match-history/v1/products/lol/:puuid/matches"
	PathGame                   = "/lol-match-history/v1/games/:gameId"
	PathGameflowSession        = "/lol-gameflow/v1/session"
	PathGameflowPhase          = "/lol-gameflow/v1/gameflow-phase"
	PathChampSelectSession     = "/lol-champ-select/v1/session"
	PathItems                  = "/lol-game-data/assets/v1/items.json"
	PathPerks                  = "/lol-game-data/assets/v1/perks.json"
	PathSummonerSpells         = "/lol-game-data/assets/v1/summoner-spells.json"
	PathCherryAugments         = "/lol-game-data/assets/v1/cherry-augments.json"
	PathProfileIcon            = "/lol-game-data/assets/v1/profile-icons/:id.jpg"
	PathChampionIcon           = "/lol-game-data/assets/v1/champion-icons/:id.png"
)

var defaultDescriptors = []Descriptor{
	{ID: PathHelp, Return: schema.AnyJSON},
	{ID: PathSummonerStatus, Return: schema.SummonerStatus},
	{ID: PathCurrentSummoner, Return: schema.Summoner},
	{ID: PathSummonerByID, Return: schema.Summoner},
	{ID: PathSummonerByPUUID, Return: schema.Summoner},
	{ID: PathCurrentSummonerMatches, Return: schema.Matches, Query: schema.MatchHistoryQuery},
	{ID: PathMatchesByPUUID, Return: schema.Matches, Query: schema.MatchHistoryQuery},
	{ID: PathGame, Return: schema.Game},
	{ID: PathGameflowSession, Return: schema.GameflowSession},
	{ID: PathGameflowPhase, Return: schema.GameflowPhase},
	{ID: PathChampSelectSession, Return: schema.ChampSelectSession},
	{ID: PathItems, Return: schema.GameData},
	{ID: PathPerks, Return: schema.GameData},
	{ID: PathSummonerSpells, Return: schema.GameData},
	{ID: PathCherryAugments, Return: schema.GameData},
	{ID: PathProfileIcon, Return: schema.Blob},
	{ID: PathChampionIcon, Return: schema.Blob},
}

var defaultEvents = map[string]*schema.Schema{
	EventNameForPath(PathGameflowSession):    schema.GameflowSession,
	EventNameForPath(PathGameflowPhase):      schema.GameflowPhase,
	EventNameForPath(PathChampSelectSession): schema.ChampSelectSession,
}

var defaultTable = sync.OnceValue(func() *Table {
	return MustNewTable(defaultDescriptors, defaultEvents)
})

// Default 返回内置的端点表，全局共享且只构建一次
func Default() *Table {
	return defaultTable()
}
