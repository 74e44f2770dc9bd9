package api

// AccountResponse is the account-v1 by-riot-id payload.
type AccountResponse struct {
	Puuid    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Match is the match-v5 detail payload, trimmed to the fields consumed.
type Match struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type MatchInfo struct {
	QueueID      int           `json:"queueId"`
	GameCreation int64         `json:"gameCreation"` // epoch millis
	GameDuration int           `json:"gameDuration"` // seconds
	Participants []Participant `json:"participants"`
}

type Participant struct {
	Puuid              string `json:"puuid"`
	TeamID             int    `json:"teamId"`
	ChampionName       string `json:"championName"`
	IndividualPosition string `json:"individualPosition"`
	Win                bool   `json:"win"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	DoubleKills int `json:"doubleKills"`
	TripleKills int `json:"tripleKills"`
	QuadraKills int `json:"quadraKills"`
	PentaKills  int `json:"pentaKills"`

	GoldEarned                  int `json:"goldEarned"`
	TotalDamageDealtToChampions int `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int `json:"totalDamageTaken"`
	VisionScore                 int `json:"visionScore"`
	ItemsPurchased              int `json:"itemsPurchased"`
}

// FindParticipant locates the participant record for a PUUID, or nil when
// the account is absent from the match.
func (m *Match) FindParticipant(puuid string) *Participant {
	for i := range m.Info.Participants {
		if m.Info.Participants[i].Puuid == puuid {
			return &m.Info.Participants[i]
		}
	}
	return nil
}
