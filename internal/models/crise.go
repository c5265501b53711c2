package models

import "time"

// Crise is a single incident record. Nome is unique across the table and
// doubles as the dedup key for records ingested from the Cobli API.
type Crise struct {
	ID        int64
	Nome      string
	DataCrise string // DD/MM/YYYY
	Prazo     int    // deadline, in days
	Detalhes  string
	CreatedAt time.Time
}
