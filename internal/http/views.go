package http

import (
	"time"

	"github.com/screfinery/screfinery/internal/domain"
)

// Wire representations. The password hash never leaves the server.

type userView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Mail      string     `json:"mail"`
	IsGoogle  bool       `json:"is_google"`
	IsActive  bool       `json:"is_active"`
	Scopes    []string   `json:"scopes"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func viewUser(u domain.User) userView {
	scopes := u.Scopes
	if scopes == nil {
		scopes = []string{}
	}
	return userView{
		ID:        u.ID,
		Name:      u.Name,
		Mail:      u.Mail,
		IsGoogle:  u.IsGoogle,
		IsActive:  u.IsActive,
		Scopes:    scopes,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func viewUsers(users []domain.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, viewUser(u))
	}
	return out
}

type relatedView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func viewRelated(r domain.Related) relatedView {
	return relatedView{ID: r.ID, Name: r.Name}
}

type friendshipView struct {
	UserID     string     `json:"user_id"`
	UserName   string     `json:"user_name"`
	FriendID   string     `json:"friend_id"`
	FriendName string     `json:"friend_name"`
	CreatedAt  time.Time  `json:"created_at"`
	Confirmed  *time.Time `json:"confirmed"`
}

type friendshipListView struct {
	Outgoing []friendshipView `json:"outgoing"`
	Incoming []friendshipView `json:"incoming"`
}

func viewFriendships(l domain.FriendshipList) friendshipListView {
	conv := func(in []domain.Friendship) []friendshipView {
		out := make([]friendshipView, 0, len(in))
		for _, f := range in {
			out = append(out, friendshipView{
				UserID:     f.UserID,
				UserName:   f.UserName,
				FriendID:   f.FriendID,
				FriendName: f.FriendName,
				CreatedAt:  f.CreatedAt,
				Confirmed:  f.Confirmed,
			})
		}
		return out
	}
	return friendshipListView{Outgoing: conv(l.Outgoing), Incoming: conv(l.Incoming)}
}

type oreView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func viewOre(o domain.Ore) oreView {
	return oreView{ID: o.ID, Name: o.Name, CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt}
}

func viewOres(ores []domain.Ore) []oreView {
	out := make([]oreView, 0, len(ores))
	for _, o := range ores {
		out = append(out, viewOre(o))
	}
	return out
}

type stationEfficiencyView struct {
	OreID   string  `json:"ore_id"`
	OreName string  `json:"ore_name"`
	Bonus   float64 `json:"efficiency_bonus"`
}

type stationView struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Efficiencies []stationEfficiencyView `json:"efficiencies"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

func viewStation(s domain.Station) stationView {
	effs := make([]stationEfficiencyView, 0, len(s.Efficiencies))
	for _, e := range s.Efficiencies {
		effs = append(effs, stationEfficiencyView{OreID: e.OreID, OreName: e.OreName, Bonus: e.Bonus})
	}
	return stationView{ID: s.ID, Name: s.Name, Efficiencies: effs, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
}

func viewStations(stations []domain.Station) []stationView {
	out := make([]stationView, 0, len(stations))
	for _, s := range stations {
		out = append(out, viewStation(s))
	}
	return out
}

type methodEfficiencyView struct {
	OreID      string  `json:"ore_id"`
	OreName    string  `json:"ore_name"`
	Efficiency float64 `json:"efficiency"`
	Duration   float64 `json:"duration"`
}

type methodView struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Efficiencies []methodEfficiencyView `json:"efficiencies"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func viewMethod(m domain.Method) methodView {
	effs := make([]methodEfficiencyView, 0, len(m.Efficiencies))
	for _, e := range m.Efficiencies {
		effs = append(effs, methodEfficiencyView{
			OreID:      e.OreID,
			OreName:    e.OreName,
			Efficiency: e.Efficiency,
			Duration:   e.Duration,
		})
	}
	return methodView{ID: m.ID, Name: m.Name, Efficiencies: effs, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func viewMethods(methods []domain.Method) []methodView {
	out := make([]methodView, 0, len(methods))
	for _, m := range methods {
		out = append(out, viewMethod(m))
	}
	return out
}

type sessionView struct {
	ID           string        `json:"id"`
	Creator      relatedView   `json:"creator"`
	Name         string        `json:"name"`
	Archived     *time.Time    `json:"archived"`
	YieldSCU     *float64      `json:"yield_scu"`
	YieldUEC     *float64      `json:"yield_uec"`
	UsersInvited []relatedView `json:"users_invited"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func viewSession(s domain.MiningSession) sessionView {
	invited := make([]relatedView, 0, len(s.UsersInvited))
	for _, u := range s.UsersInvited {
		invited = append(invited, viewRelated(u))
	}
	return sessionView{
		ID:           s.ID,
		Creator:      viewRelated(s.Creator),
		Name:         s.Name,
		Archived:     s.Archived,
		YieldSCU:     s.YieldSCU,
		YieldUEC:     s.YieldUEC,
		UsersInvited: invited,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type sessionListItemView struct {
	ID                string      `json:"id"`
	Creator           relatedView `json:"creator"`
	Name              string      `json:"name"`
	Archived          *time.Time  `json:"archived"`
	YieldSCU          *float64    `json:"yield_scu"`
	YieldUEC          *float64    `json:"yield_uec"`
	EntriesCount      int         `json:"entries_count"`
	UsersInvitedCount int         `json:"users_invited_count"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

func viewSessionListItems(items []domain.MiningSessionListItem) []sessionListItemView {
	out := make([]sessionListItemView, 0, len(items))
	for _, it := range items {
		out = append(out, sessionListItemView{
			ID:                it.ID,
			Creator:           viewRelated(it.Creator),
			Name:              it.Name,
			Archived:          it.Archived,
			YieldSCU:          it.YieldSCU,
			YieldUEC:          it.YieldUEC,
			EntriesCount:      it.EntriesCount,
			UsersInvitedCount: it.UsersInvitedCount,
			CreatedAt:         it.CreatedAt,
			UpdatedAt:         it.UpdatedAt,
		})
	}
	return out
}

type entryView struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	User      relatedView `json:"user"`
	Station   relatedView `json:"station"`
	Ore       relatedView `json:"ore"`
	Method    relatedView `json:"method"`
	Quantity  float64     `json:"quantity"`
	Duration  float64     `json:"duration"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func viewEntry(e domain.MiningSessionEntry) entryView {
	return entryView{
		ID:        e.ID,
		SessionID: e.SessionID,
		User:      viewRelated(e.User),
		Station:   viewRelated(e.Station),
		Ore:       viewRelated(e.Ore),
		Method:    viewRelated(e.Method),
		Quantity:  e.Quantity,
		Duration:  e.Duration,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func viewEntries(entries []domain.MiningSessionEntry) []entryView {
	out := make([]entryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, viewEntry(e))
	}
	return out
}
