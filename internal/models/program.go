package models

// Program is a canonical academic program as maintained by academic
// administration. Code is short, unique and human-meaningful ("BSIS");
// Name is the long form and is neither unique nor code-like.
type Program struct {
	ID       int64  `db:"id" json:"id"`
	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	Category string `db:"category" json:"category"`
}
