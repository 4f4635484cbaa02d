package endpoint

import "github.com/life-stream-dev/life-stream-go-lcu-client/internal/schema"

// Endpoint 将端点 ID 与其返回值的 Go 类型绑定
type Endpoint[T any] struct {
	ID string
}

var (
	Help                   = Endpoint[any]{ID: PathHelp}
	SummonerStatus         = Endpoint[schema.SummonerStatusPayload]{ID: PathSummonerStatus}
	CurrentSummoner        = Endpoint[schema.SummonerPayload]{ID: PathCurrentSummoner}
	SummonerByID           = Endpoint[schema.SummonerPayload]{ID: PathSummonerByID}
	SummonerByPUUID        = Endpoint[schema.SummonerPayload]{ID: PathSummonerByPUUID}
	CurrentSummonerMatches = Endpoint[schema.MatchesPayload]{ID: PathCurrentSummonerMatches}
	MatchesByPUUID         = Endpoint[schema.MatchesPayload]{ID: PathMatchesByPUUID}
	Game                   = Endpoint[schema.GamePayload]{ID: PathGame}
	GameflowSession        = Endpoint[schema.GameflowSessionPayload]{ID: PathGameflowSession}
	GameflowPhase          = Endpoint[string]{ID: PathGameflowPhase}
	ChampSelectSession     = Endpoint[schema.ChampSelectSessionPayload]{ID: PathChampSelectSession}
	ProfileIcon            = Endpoint[[]byte]{ID: PathProfileIcon}
	ChampionIcon           = Endpoint[[]byte]{ID: PathChampionIcon}
)

// Decode 将校验后的值转换为 T
func (e Endpoint[T]) Decode(v any) (T, error) {
	return schema.Decode[T](v)
}

// Event 返回该端点对应的事件名
func (e Endpoint[T]) Event() string {
	return EventNameForPath(e.ID)
}
