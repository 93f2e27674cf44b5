package neighborhood

// CreateNeighborhoodRequest represents the request to create a new
// neighborhood group
type CreateNeighborhoodRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	AgeRange string `json:"age_range" validate:"required"`
	ZipCode  string `json:"zip_code" validate:"required"`
}

// NeighborhoodResponse represents the response for a neighborhood group
type NeighborhoodResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	AgeRange     string   `json:"age_range"`
	ZipCode      string   `json:"zip_code"`
	Users        []string `json:"users"`
	CreatorEmail string   `json:"creator_email"`
	MemberCount  int      `json:"member_count"`
}

// MineResponse partitions the current user's groups
type MineResponse struct {
	Created []*NeighborhoodResponse `json:"created"`
	Joined  []*NeighborhoodResponse `json:"joined"`
}

// ToResponse converts a Neighborhood model to a NeighborhoodResponse DTO
func (n *Neighborhood) ToResponse() *NeighborhoodResponse {
	return &NeighborhoodResponse{
		ID:           n.ID,
		Name:         n.GroupName,
		AgeRange:     string(n.AgeRange),
		ZipCode:      n.ZipCode,
		Users:        append([]string(nil), n.Users...),
		CreatorEmail: n.CreatorEmail,
		MemberCount:  len(n.Users),
	}
}

// ToResponses converts a slice of models, keeping order.
func ToResponses(groups []Neighborhood) []*NeighborhoodResponse {
	out := make([]*NeighborhoodResponse, len(groups))
	for i := range groups {
		out[i] = groups[i].ToResponse()
	}
	return out
}
