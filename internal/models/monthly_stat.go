package models

// MonthlyStat is the per-user, per-calendar-month rollup of bananas given
// and received. One document per (user, year, month), upserted incrementally
// alongside each transaction. A zero or absent Given for a period marks the
// user inactive for decay purposes.
type MonthlyStat struct {
	UserID   string `bson:"userId" json:"userId"`
	Year     int    `bson:"year" json:"year"`
	Month    int    `bson:"month" json:"month"`
	Given    int    `bson:"given" json:"given"`
	Received int    `bson:"received" json:"received"`
}
