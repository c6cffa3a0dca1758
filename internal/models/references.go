package models

// ReferencesModel carries the stops and lines an entry or list mentions.
type ReferencesModel struct {
	Lines []string `json:"lines"`
	Stops []Stop   `json:"stops"`
}

// NewEmptyReferences creates a ReferencesModel whose slices marshal as [].
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Lines: []string{},
		Stops: []Stop{},
	}
}
