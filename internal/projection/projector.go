// Package projection turns raw document-store records into typed entities.
// A record that cannot be projected is skipped with a SkipError; projection
// never fails a whole listing.
package projection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hondaapi/internal/model"
)

// Skip reasons, also used as metric label values.
const (
	ReasonMissingField = "missing_field"
	ReasonBadDate      = "bad_date"
	ReasonBadNumber    = "bad_number"
)

// SkipError explains why a record was left out of a listing.
type SkipError struct {
	Field  string
	Reason string
}

func (e *SkipError) Error() string {
	switch e.Reason {
	case ReasonMissingField:
		return "missing field " + e.Field
	case ReasonBadDate:
		return "unparsable date in field " + e.Field
	case ReasonBadNumber:
		return "invalid number in field " + e.Field
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Field)
}

// IsSkip reports whether err is a SkipError.
func IsSkip(err error) bool {
	var se *SkipError
	return errors.As(err, &se)
}

// Required lists, per collection, the fields whose absence rejects a record.
var Required = map[string][]string{
	model.CollectionBanners:            {"Title", "NewsContent"},
	model.CollectionProducts:           {"NameProduct", "Price", "Description", "Category"},
	model.CollectionServices:           {"name_service", "type", "price"},
	model.CollectionVehicles:           {},
	model.CollectionRepairSchedules:    {"carName", "carType", "damageDescription", "date", "service", "uid", "userName", "status", "imageUrls"},
	model.CollectionTestDriveSchedules: {"productId", "productName", "status", "date", "uid", "userName"},
	model.CollectionReviews:            {"comment", "rating", "scheduleId", "staffId", "createdAt"},
	model.CollectionUsers:              {"username", "fullname", "email", "phone", "address", "isActive", "uid"},
	model.CollectionBilling:            {"customerUid", "customerName", "carName", "date", "services", "totalCost", "staffName"},
}

// Projector holds the settings shared by all projections. The zero value
// parses dates in UTC and applies no display offset.
type Projector struct {
	Dates   DateCoercer
	Display DisplayOffset
	Metrics *Metrics
}

// NewProjector returns a Projector whose schedule dates are shown at offset.
func NewProjector(offset time.Duration, m *Metrics) *Projector {
	return &Projector{Display: DisplayOffset(offset), Metrics: m}
}

// reader reads typed fields from one record and remembers the first failure.
// Reads after a failure are still safe and return zero values.
type reader struct {
	rec   model.Record
	dates DateCoercer
	err   *SkipError
}

func (p *Projector) read(rec model.Record) *reader {
	return &reader{rec: rec, dates: p.Dates}
}

func (r *reader) fail(field, reason string) {
	if r.err == nil {
		r.err = &SkipError{Field: field, Reason: reason}
	}
}

func (r *reader) require(collection string) bool {
	for _, f := range Required[collection] {
		if !r.rec.Has(f) {
			r.fail(f, ReasonMissingField)
			return false
		}
	}
	return true
}

func (r *reader) str(name string) string {
	return toString(r.rec.Fields[name])
}

// strOr substitutes def when the field is absent.
func (r *reader) strOr(name, def string) string {
	if !r.rec.Has(name) {
		return def
	}
	return r.str(name)
}

func (r *reader) int(name string) int {
	v, ok := r.rec.Fields[name]
	if !ok {
		return 0
	}
	n, err := toInt(v)
	if err != nil {
		r.fail(name, ReasonBadNumber)
	}
	return n
}

func (r *reader) float(name string) float64 {
	v, ok := r.rec.Fields[name]
	if !ok {
		return 0
	}
	f, err := toFloat(v)
	if err != nil {
		r.fail(name, ReasonBadNumber)
	}
	return f
}

// date returns the zero time when the field is absent.
func (r *reader) date(name string) time.Time {
	v, ok := r.rec.Fields[name]
	if !ok {
		return time.Time{}
	}
	t, err := r.dates.Coerce(v)
	if err != nil {
		r.fail(name, ReasonBadDate)
	}
	return t
}

func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	return nil
}

func (p *Projector) Banner(_ context.Context, rec model.Record) (model.Banner, error) {
	r := p.read(rec)
	if !r.require(model.CollectionBanners) {
		return model.Banner{}, r.done()
	}
	b := model.Banner{
		ID:          rec.ID,
		Title:       r.str("Title"),
		NewsContent: r.str("NewsContent"),
		CreatedAt:   r.date("CreatedAt"),
		ImageURL:    r.str("ImageUrl"),
	}
	return b, r.done()
}

func (p *Projector) Product(_ context.Context, rec model.Record) (model.Product, error) {
	r := p.read(rec)
	if !r.require(model.CollectionProducts) {
		return model.Product{}, r.done()
	}
	pr := model.Product{
		ID:          rec.ID,
		NameProduct: r.str("NameProduct"),
		Price:       r.float("Price"),
		Description: r.str("Description"),
		Category:    r.str("Category"),
		AddedDate:   r.date("AddedDate"),
		ImageURL:    r.str("ImageUrl"),
	}
	return pr, r.done()
}

func (p *Projector) Service(_ context.Context, rec model.Record) (model.Service, error) {
	r := p.read(rec)
	if !r.require(model.CollectionServices) {
		return model.Service{}, r.done()
	}
	s := model.Service{
		ID:          rec.ID,
		NameService: r.str("name_service"),
		Type:        r.str("type"),
		Price:       r.int("price"),
	}
	return s, r.done()
}

// Vehicle has no required fields; every absent field takes its zero value.
func (p *Projector) Vehicle(_ context.Context, rec model.Record) (model.Vehicle, error) {
	r := p.read(rec)
	v := model.Vehicle{
		ID:           rec.ID,
		VehicleName:  r.str("vehicle_name"),
		IDUser:       r.str("id_user"),
		VIN:          r.str("vin_num"),
		Brand:        r.str("brand"),
		Model:        r.str("model"),
		Color:        r.str("color"),
		LicensePlate: r.str("license_plate"),
		KM:           r.int("km"),
		PurchaseDate: r.str("purchase_date"),
	}
	return v, r.done()
}

// RepairSchedule resolves the assigned staff id through staff. A record with no
// staff field is shown as UnknownStaff without any lookup.
func (p *Projector) RepairSchedule(ctx context.Context, rec model.Record, staff Lookup) (model.RepairSchedule, error) {
	r := p.read(rec)
	if !r.require(model.CollectionRepairSchedules) {
		return model.RepairSchedule{}, r.done()
	}
	rs := model.RepairSchedule{
		ID:                rec.ID,
		CarName:           r.str("carName"),
		CarType:           r.str("carType"),
		DamageDescription: r.str("damageDescription"),
		Date:              p.Display.Apply(r.date("date")),
		Service:           r.str("service"),
		UID:               r.str("uid"),
		UserName:          r.str("userName"),
		Status:            r.str("status"),
		StatusCheck:       r.strOr("statusCheck", ""),
		ImageURLs:         toStrings(rec.Fields["imageUrls"]),
	}
	if err := r.done(); err != nil {
		return model.RepairSchedule{}, err
	}

	rs.Staff = UnknownStaff
	if rec.Has("staff") {
		rs.Staff = staff.Resolve(ctx, r.str("staff"))
	}
	return rs, nil
}

func (p *Projector) TestDriveSchedule(_ context.Context, rec model.Record) (model.TestDriveSchedule, error) {
	r := p.read(rec)
	if !r.require(model.CollectionTestDriveSchedules) {
		return model.TestDriveSchedule{}, r.done()
	}
	td := model.TestDriveSchedule{
		ID:          rec.ID,
		ProductID:   r.str("productId"),
		ProductName: r.str("productName"),
		Status:      r.str("status"),
		Date:        p.Display.Apply(r.date("date")),
		UID:         r.str("uid"),
		UserName:    r.str("userName"),
	}
	return td, r.done()
}

// BillDetail keeps the bill's date text as written. Service lines lacking an
// id, name or price are dropped.
func (p *Projector) BillDetail(_ context.Context, rec model.Record) (model.BillDetail, error) {
	r := p.read(rec)
	if !r.require(model.CollectionBilling) {
		return model.BillDetail{}, r.done()
	}
	b := model.BillDetail{
		ID:           rec.ID,
		CustomerUID:  r.str("customerUid"),
		CustomerName: r.str("customerName"),
		CarName:      r.str("carName"),
		Date:         r.str("date"),
		CreatedAt:    r.date("createdAt"),
		Services:     serviceBills(rec.Fields["services"]),
		TotalCost:    r.float("totalCost"),
		StaffName:    r.str("staffName"),
	}
	return b, r.done()
}

func serviceBills(v any) []model.ServiceBill {
	out := []model.ServiceBill{}
	for _, m := range toMaps(v) {
		id, okID := m["id"]
		name, okName := m["name"]
		price, okPrice := m["price"]
		if !okID || !okName || !okPrice {
			continue
		}
		n, err := toInt(price)
		if err != nil {
			continue
		}
		out = append(out, model.ServiceBill{ID: toString(id), Name: toString(name), Price: n})
	}
	return out
}

// Review resolves the staff member's name through staff.
func (p *Projector) Review(ctx context.Context, rec model.Record, staff Lookup) (model.Review, error) {
	r := p.read(rec)
	if !r.require(model.CollectionReviews) {
		return model.Review{}, r.done()
	}
	rv := model.Review{
		ID:         rec.ID,
		Comment:    r.str("comment"),
		Rating:     r.int("rating"),
		ScheduleID: r.str("scheduleId"),
		StaffID:    r.str("staffId"),
		CreatedAt:  r.date("createdAt"),
	}
	if err := r.done(); err != nil {
		return model.Review{}, err
	}
	rv.StaffName = staff.Resolve(ctx, rv.StaffID)
	return rv, nil
}

func (p *Projector) User(_ context.Context, rec model.Record) (model.User, error) {
	r := p.read(rec)
	if !r.require(model.CollectionUsers) {
		return model.User{}, r.done()
	}
	u := model.User{
		ID:       rec.ID,
		Username: r.str("username"),
		Fullname: r.str("fullname"),
		Email:    r.str("email"),
		Phone:    r.str("phone"),
		Address:  r.str("address"),
		IsActive: toBool(rec.Fields["isActive"]),
		UID:      r.str("uid"),
	}
	return u, r.done()
}

// ForeignIDs collects the string values of field across records, in order.
func ForeignIDs(recs []model.Record, field string) []string {
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		if v, ok := rec.Fields[field]; ok {
			ids = append(ids, toString(v))
		}
	}
	return ids
}
