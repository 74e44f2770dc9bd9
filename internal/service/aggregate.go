package service

import (
	"math"
	"sort"
	"time"

	"league-tracker/internal/api"
	"league-tracker/internal/domain"
	"league-tracker/internal/modes"
)

// detailAccumulator collects running sums over the participant records of
// one ingestion run. It is not safe for concurrent use; the pipeline feeds
// it sequentially after the fetch phase completes.
type detailAccumulator struct {
	champions map[string]int
	positions map[string]int
	allies    map[string]int
	enemies   map[string]int

	teamMatches int
	processed   int

	doubleKills int
	tripleKills int
	quadraKills int
	pentaKills  int

	gold        int
	kills       int
	deaths      int
	assists     int
	damageDealt int
	damageTaken int
	visionScore int
	items       int
	timePlayed  int
}

func newDetailAccumulator() *detailAccumulator {
	return &detailAccumulator{
		champions: make(map[string]int),
		positions: make(map[string]int),
		allies:    make(map[string]int),
		enemies:   make(map[string]int),
	}
}

// add folds one match payload into the accumulator. It returns false when
// the requesting account is absent from the participant list, in which case
// the match contributes nothing.
func (a *detailAccumulator) add(match *api.Match, puuid string, category modes.Category) bool {
	p := match.FindParticipant(puuid)
	if p == nil {
		return false
	}

	a.processed++

	a.kills += p.Kills
	a.deaths += p.Deaths
	a.assists += p.Assists
	a.gold += p.GoldEarned
	a.damageDealt += p.TotalDamageDealtToChampions
	a.damageTaken += p.TotalDamageTaken
	a.visionScore += p.VisionScore
	a.items += p.ItemsPurchased
	a.timePlayed += match.Info.GameDuration

	a.doubleKills += p.DoubleKills
	a.tripleKills += p.TripleKills
	a.quadraKills += p.QuadraKills
	a.pentaKills += p.PentaKills

	if p.ChampionName != "" {
		a.champions[p.ChampionName]++
	}
	if validPosition(p.IndividualPosition) {
		a.positions[p.IndividualPosition]++
	}

	if modes.TeamBased(category) {
		a.teamMatches++
		for i := range match.Info.Participants {
			other := &match.Info.Participants[i]
			if other.Puuid == puuid || other.ChampionName == "" {
				continue
			}
			if other.TeamID == p.TeamID {
				a.allies[other.ChampionName]++
			} else {
				a.enemies[other.ChampionName]++
			}
		}
	}
	return true
}

// The provider reports "Invalid" for modes without positions (ARAM, Arena).
func validPosition(pos string) bool {
	return pos != "" && pos != "Invalid"
}

// summary freezes the accumulator into a DetailedSummary. Averages are over
// the processed count; with nothing processed every average stays zero.
func (a *detailAccumulator) summary(userID int64, now time.Time) *domain.DetailedSummary {
	s := &domain.DetailedSummary{
		UserID: userID,

		Champions: sortFrequencies(a.champions),
		Positions: sortFrequencies(a.positions),

		DoubleKills:     a.doubleKills,
		TripleKills:     a.tripleKills,
		QuadraKills:     a.quadraKills,
		PentaKills:      a.pentaKills,
		TotalMultikills: a.doubleKills + a.tripleKills + a.quadraKills + a.pentaKills,

		TotalGold:        a.gold,
		TotalKills:       a.kills,
		TotalDeaths:      a.deaths,
		TotalAssists:     a.assists,
		TotalDamageDealt: a.damageDealt,
		TotalDamageTaken: a.damageTaken,
		TotalVisionScore: a.visionScore,
		TotalItems:       a.items,
		TotalTimePlayed:  a.timePlayed,

		MatchesAnalyzed: a.processed,
		LastUpdated:     now,
	}

	s.Allies = domain.FrequencyList{}
	s.Enemies = domain.FrequencyList{}
	if a.teamMatches > 0 {
		s.Allies = sortFrequencies(a.allies)
		s.Enemies = sortFrequencies(a.enemies)
	}

	if a.processed > 0 {
		n := float64(a.processed)
		s.AvgMultikills = round1(float64(s.TotalMultikills) / n)
		s.AvgGold = round1(float64(a.gold) / n)
		s.AvgKills = round1(float64(a.kills) / n)
		s.AvgDeaths = round1(float64(a.deaths) / n)
		s.AvgAssists = round1(float64(a.assists) / n)
		s.AvgDamageDealt = round1(float64(a.damageDealt) / n)
		s.AvgDamageTaken = round1(float64(a.damageTaken) / n)
		s.AvgVisionScore = round1(float64(a.visionScore) / n)
		s.AvgItems = round1(float64(a.items) / n)
		s.AvgTimePlayed = round1(float64(a.timePlayed) / n)

		deaths := a.deaths
		if deaths == 0 {
			deaths = 1
		}
		s.AvgKDA = round2(float64(a.kills+a.assists) / float64(deaths))
	}

	return s
}

// sortFrequencies orders a frequency map descending by count. Ties break on
// name so runs over the same match set always serialize identically.
func sortFrequencies(m map[string]int) domain.FrequencyList {
	list := make(domain.FrequencyList, 0, len(m))
	for name, count := range m {
		list = append(list, domain.FrequencyCount{Name: name, Count: count})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
