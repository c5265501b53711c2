package api

import "github.com/aroucaleo/componente-B-C/internal/models"

// CriseView is the wire representation of a record: the four semantic
// fields plus the assigned id, nothing else.
type CriseView struct {
	ID        int64  `json:"id"`
	Nome      string `json:"nome"`
	DataCrise string `json:"data_crise"`
	Prazo     int    `json:"prazo"`
	Detalhes  string `json:"detalhes"`
}

// The two list endpoints use different collection keys ("crises" vs
// "Crises"); both are kept as-is for wire compatibility.
type criseListView struct {
	Crises []CriseView `json:"crises"`
}

type criseAPIListView struct {
	Crises []CriseView `json:"Crises"`
}

func toCriseView(c *models.Crise) CriseView {
	return CriseView{
		ID:        c.ID,
		Nome:      c.Nome,
		DataCrise: c.DataCrise,
		Prazo:     c.Prazo,
		Detalhes:  c.Detalhes,
	}
}

func toCriseViews(crises []models.Crise) []CriseView {
	views := make([]CriseView, 0, len(crises))
	for i := range crises {
		views = append(views, toCriseView(&crises[i]))
	}
	return views
}
