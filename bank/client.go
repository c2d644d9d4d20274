package bank

import "fmt"

// RankMax is the highest client rank; ranks run from 0 to RankMax.
const RankMax = 10

// Client is a bank client. A client can belong to any number of accounts.
// ID is zero until first persisted.
type Client struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// NewClient validates the rank range. Name format (letters and spaces) is
// the input layer's problem, not ours.
func NewClient(name string, rank int) (*Client, error) {
	if rank < 0 || rank > RankMax {
		return nil, fmt.Errorf("rank %d out of range [0,%d]", rank, RankMax)
	}
	return &Client{Name: name, Rank: rank}, nil
}

// Clone returns an independent copy of the client.
func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func (c *Client) String() string {
	return fmt.Sprintf("Client{id=%d, name=%q, rank=%d}", c.ID, c.Name, c.Rank)
}
