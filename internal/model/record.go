package model

// Collection names in the document store.
const (
	CollectionBanners            = "banners"
	CollectionProducts           = "products"
	CollectionServices           = "services"
	CollectionVehicles           = "vehicles"
	CollectionRepairSchedules    = "repairSchedules"
	CollectionTestDriveSchedules = "testDriveSchedules"
	CollectionReviews            = "reviews"
	CollectionUsers              = "users"
	CollectionBilling            = "billing"
)

// Record is one stored item as returned by the document store: its id plus an
// untyped field map. It is only meant to be read by the projection layer.
type Record struct {
	ID     string
	Fields map[string]any
}

// Has reports whether the record carries the named field, even when its value is nil.
func (r Record) Has(name string) bool {
	_, ok := r.Fields[name]
	return ok
}
