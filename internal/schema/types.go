package schema

import "time"

type SummonerStatusPayload struct {
	Ready bool `json:"ready"`
}

type SummonerPayload struct {
	GameName      string `json:"gameName"`
	Privacy       string `json:"privacy"`
	ProfileIconID int64  `json:"profileIconId"`
	SummonerID    int64  `json:"summonerId"`
	SummonerLevel int64  `json:"summonerLevel"`
	TagLine       string `json:"tagLine"`
	PUUID         string `json:"puuid"`
}

type TeamPayload struct {
	Bans                 []any  `json:"bans"`
	BaronKills           int64  `json:"baronKills"`
	DominionVictoryScore int64  `json:"dominionVictoryScore"`
	DragonKills          int64  `json:"dragonKills"`
	FirstBaron           bool   `json:"firstBaron"`
	FirstBlood           bool   `json:"firstBlood"`
	FirstDragon          bool   `json:"firstDargon"`
	FirstInhibitor       bool   `json:"firstInhibitor"`
	TowerKills           int64  `json:"towerKills"`
	VilemawKills         int64  `json:"vilemawKills"`
	Win                  string `json:"win"`
}

type PlayerPayload struct {
	PUUID       string `json:"puuid"`
	SummonerID  int64  `json:"summonerId"`
	GameName    string `json:"gameName"`
	TagLine     string `json:"tagLine"`
	ProfileIcon int64  `json:"profileIcon"`
}

type ParticipantIdentityPayload struct {
	ParticipantID int64         `json:"participantId"`
	Player        PlayerPayload `json:"player"`
}

type ParticipantStatsPayload struct {
	ChampLevel                  int64 `json:"champLevel"`
	Kills                       int64 `json:"kills"`
	Deaths                      int64 `json:"deaths"`
	Assists                     int64 `json:"assists"`
	DoubleKills                 int64 `json:"doubleKills"`
	TripleKills                 int64 `json:"tripleKills"`
	QuadraKills                 int64 `json:"quadraKills"`
	PentaKills                  int64 `json:"pentaKills"`
	LargestMultiKill            int64 `json:"largestMultiKill"`
	TotalDamageTaken            int64 `json:"totalDamageTaken"`
	TotalDamageDealtToChampions int64 `json:"totalDamageDealtToChampions"`
	GoldEarned                  int64 `json:"goldEarned"`
	Item0                       int64 `json:"item0"`
	Item1                       int64 `json:"item1"`
	Item2                       int64 `json:"item2"`
	Item3                       int64 `json:"item3"`
	Item4                       int64 `json:"item4"`
	Item5                       int64 `json:"item5"`
	Item6                       int64 `json:"item6"`
	// 重开局等情况下没有胜负
	Win *bool `json:"win"`
}

type ParticipantPayload struct {
	ParticipantID int64                   `json:"participantId"`
	ChampionID    int64                   `json:"championId"`
	Stats         ParticipantStatsPayload `json:"stats"`
}

type GamePayload struct {
	EndOfGameResult       string                       `json:"endOfGameResult"`
	GameCreationDate      time.Time                    `json:"gameCreationDate"`
	GameDuration          int64                        `json:"gameDuration"`
	GameID                int64                        `json:"gameId"`
	GameMode              string                       `json:"gameMode"`
	GameType              string                       `json:"gameType"`
	MapID                 int64                        `json:"mapId"`
	ParticipantIdentities []ParticipantIdentityPayload `json:"participantIdentities"`
	Participants          []ParticipantPayload         `json:"participants"`
	Teams                 []TeamPayload                `json:"teams"`
}

// Participant 按 puuid 查找该玩家在对局中的数据
func (g GamePayload) Participant(puuid string) (ParticipantPayload, bool) {
	for _, identity := range g.ParticipantIdentities {
		if identity.Player.PUUID != puuid {
			continue
		}
		for _, p := range g.Participants {
			if p.ParticipantID == identity.ParticipantID {
				return p, true
			}
		}
	}
	return ParticipantPayload{}, false
}

type MatchesPayload struct {
	AccountID int64 `json:"accountId"`
	Games     struct {
		GameCount      int64         `json:"gameCount"`
		GameIndexBegin int64         `json:"gameIndexBegin"`
		GameIndexEnd   int64         `json:"gameIndexEnd"`
		Games          []GamePayload `json:"games"`
	} `json:"games"`
}

type GameflowPlayerPayload struct {
	PUUID             string `json:"puuid"`
	SummonerID        *int64 `json:"summonerId"`
	ChampionID        *int64 `json:"championId"`
	TeamParticipantID *int64 `json:"teamParticipantId"`
}

type GameflowSessionPayload struct {
	Phase    string `json:"phase"`
	GameData *struct {
		GameID  *int64                  `json:"gameId"`
		TeamOne []GameflowPlayerPayload `json:"teamOne"`
		TeamTwo []GameflowPlayerPayload `json:"teamTwo"`
	} `json:"gameData"`
}

type ChampSelectPlayerPayload struct {
	CellID           int64  `json:"cellId"`
	ChampionID       int64  `json:"championId"`
	PUUID            string `json:"puuid"`
	SummonerID       *int64 `json:"summonerId"`
	AssignedPosition string `json:"assignedPosition"`
}

type ChampSelectSessionPayload struct {
	LocalPlayerCellID *int64                     `json:"localPlayerCellId"`
	MyTeam            []ChampSelectPlayerPayload `json:"myTeam"`
	TheirTeam         []ChampSelectPlayerPayload `json:"theirTeam"`
}
