package model

// ContractorCategory groups contractors. The backend enforces that a
// title is unique per owner and that a category with contractors still
// referencing it cannot be deleted.
type ContractorCategory struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	OwnerID string `json:"owner_id"`
}

// Contractor is a vendor the owner works with (caterer, photographer).
type Contractor struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Contact    string `json:"contact"`
	CategoryID string `json:"category_id"`
	OwnerID    string `json:"owner_id"`
}
