package models

// Client carries the loyalty balance. Points only move at checkout:
// credited from completed stays, debited by redemption. The balance
// never goes negative.
type Client struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
	Points   int    `json:"points"`
}
