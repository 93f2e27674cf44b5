package directory

import (
	"github.com/andydlo/neighborhood-connect/internal/event"
	"github.com/andydlo/neighborhood-connect/internal/neighborhood"
)

// HomeViewResponse represents the home screen payload: the user's groups
// partitioned by role and events partitioned by attendance.
type HomeViewResponse struct {
	Created   []*neighborhood.NeighborhoodResponse `json:"created"`
	Joined    []*neighborhood.NeighborhoodResponse `json:"joined"`
	Attending []*event.EventResponse               `json:"attending"`
	Available []*event.EventResponse               `json:"available"`
}

// ToResponse converts a HomeView for the given viewer.
func (v HomeView) ToResponse(viewerEmail string) *HomeViewResponse {
	return &HomeViewResponse{
		Created:   neighborhood.ToResponses(v.Created),
		Joined:    neighborhood.ToResponses(v.Joined),
		Attending: event.ToResponses(v.Attending, viewerEmail),
		Available: event.ToResponses(v.Available, viewerEmail),
	}
}
