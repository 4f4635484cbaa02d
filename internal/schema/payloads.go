package schema

import "github.com/juju/schema"

var (
	// AnyJSON 在没有注册专用 Schema 时使用，原样透传
	AnyJSON = New("json", JSON())

	// Blob 标记二进制资源（图片等）
	Blob = &Schema{name: "blob", blob: true}
)

func optional(fields ...string) schema.Defaults {
	defaults := schema.Defaults{}
	for _, f := range fields {
		defaults[f] = schema.Omit
	}
	return defaults
}

func enum(values ...string) schema.Checker {
	options := make([]schema.Checker, len(values))
	for i, v := range values {
		options[i] = schema.Const(v)
	}
	return schema.OneOf(options...)
}

var summonerFields = schema.Fields{
	"gameName":      schema.String(),
	"privacy":       enum("PUBLIC", "PRIVATE"),
	"profileIconId": Integer(),
	"summonerId":    Integer(),
	"summonerLevel": Integer(),
	"tagLine":       schema.String(),
	"puuid":         UUID(),
}

var SummonerStatus = New("summoner-status", schema.FieldMap(schema.Fields{
	"ready": schema.Bool(),
}, nil))

var Summoner = New("summoner", schema.FieldMap(summonerFields, nil))

var team = schema.FieldMap(schema.Fields{
	"bans":                 schema.List(schema.Any()),
	"baronKills":           Integer(),
	"dominionVictoryScore": Integer(),
	"dragonKills":          Integer(),
	"firstBaron":           schema.Bool(),
	"firstBlood":           schema.Bool(),
	"firstDargon":          schema.Bool(),
	"firstInhibitor":       schema.Bool(),
	"towerKills":           Integer(),
	"vilemawKills":         Integer(),
	"win":                  enum("Win", "Fail"),
}, nil)

var participantIdentity = schema.FieldMap(schema.Fields{
	"participantId": Integer(),
	"player": schema.FieldMap(schema.Fields{
		"puuid":       UUID(),
		"summonerId":  Integer(),
		"gameName":    schema.String(),
		"tagLine":     schema.String(),
		"profileIcon": Integer(),
	}, nil),
}, nil)

var participantStats = schema.FieldMap(schema.Fields{
	"champLevel":                  Integer(),
	"kills":                       Integer(),
	"deaths":                      Integer(),
	"assists":                     Integer(),
	"doubleKills":                 Integer(),
	"tripleKills":                 Integer(),
	"quadraKills":                 Integer(),
	"pentaKills":                  Integer(),
	"largestMultiKill":            Integer(),
	"totalDamageTaken":            Integer(),
	"totalDamageDealtToChampions": Integer(),
	"goldEarned":                  Integer(),
	"item0":                       Integer(),
	"item1":                       Integer(),
	"item2":                       Integer(),
	"item3":                       Integer(),
	"item4":                       Integer(),
	"item5":                       Integer(),
	"item6":                       Integer(),
	"win":                         schema.Bool(),
}, optional("win"))

var participant = schema.FieldMap(schema.Fields{
	"participantId": Integer(),
	"championId":    Integer(),
	"stats":         participantStats,
}, nil)

var game = schema.FieldMap(schema.Fields{
	"endOfGameResult":       schema.String(),
	"gameCreationDate":      Timestamp(),
	"gameDuration":          Integer(),
	"gameId":                Integer(),
	"gameMode":              schema.String(),
	"gameType":              schema.String(),
	"mapId":                 Integer(),
	"participantIdentities": schema.List(participantIdentity),
	"participants":          schema.List(participant),
	"teams":                 schema.List(team),
}, nil)

var Game = New("game", game)

var Matches = New("matches", schema.FieldMap(schema.Fields{
	"accountId": Integer(),
	"games": schema.FieldMap(schema.Fields{
		"gameCount":      Integer(),
		"gameIndexBegin": Integer(),
		"gameIndexEnd":   Integer(),
		"games":          schema.List(game),
	}, nil),
}, nil))

// GameflowPhase 是 /lol-gameflow/v1/gameflow-phase 返回的裸字符串
var GameflowPhase = New("gameflow-phase", schema.String())

var gameflowPlayer = schema.FieldMap(schema.Fields{
	"puuid":             schema.String(),
	"summonerId":        Nullable(Integer()),
	"championId":        Nullable(Integer()),
	"teamParticipantId": Nullable(Integer()),
}, optional("summonerId", "championId", "teamParticipantId"))

var GameflowSession = New("gameflow-session", schema.FieldMap(schema.Fields{
	"phase": schema.String(),
	"gameData": schema.FieldMap(schema.Fields{
		"gameId":  Nullable(Integer()),
		"teamOne": schema.List(gameflowPlayer),
		"teamTwo": schema.List(gameflowPlayer),
	}, optional("gameId")),
}, optional("gameData")))

var champSelectPlayer = schema.FieldMap(schema.Fields{
	"cellId":           Integer(),
	"championId":       Integer(),
	"puuid":            schema.String(),
	"summonerId":       Nullable(Integer()),
	"assignedPosition": schema.String(),
}, optional("summonerId", "assignedPosition"))

var ChampSelectSession = New("champ-select-session", schema.FieldMap(schema.Fields{
	"localPlayerCellId": Integer(),
	"myTeam":            schema.List(champSelectPlayer),
	"theirTeam":         schema.List(champSelectPlayer),
}, optional("localPlayerCellId")))

// GameData 描述 /lol-game-data/assets/v1/*.json 中的条目列表，只校验 id
var GameData = New("game-data", schema.List(schema.FieldMap(schema.Fields{
	"id": Integer(),
}, nil)))

// 查询参数可能来自命令行字符串，也可能来自数值
var queryIndex = schema.OneOf(Integer(), schema.Int())

var MatchHistoryQuery = New("match-history-query", schema.FieldMap(schema.Fields{
	"begIndex": queryIndex,
	"endIndex": queryIndex,
}, optional("begIndex", "endIndex")))
