package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"hondaapi/internal/media"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+84\d{9,10}$`)
)

// BannerInput is the write form of a banner. Image is optional.
type BannerInput struct {
	Title       string       `json:"title" form:"title"`
	NewsContent string       `json:"newsContent" form:"newsContent"`
	Image       *media.Asset `json:"-" form:"-"`
}

func (in BannerInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.NewsContent, validation.Required),
	)
}

// ProductInput is the write form of a product. Image is optional.
type ProductInput struct {
	NameProduct string       `json:"nameProduct" form:"nameProduct"`
	Price       float64      `json:"price" form:"price"`
	Description string       `json:"description" form:"description"`
	Category    string       `json:"category" form:"category"`
	Image       *media.Asset `json:"-" form:"-"`
}

func (in ProductInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.NameProduct, validation.Required),
		validation.Field(&in.Price, validation.By(func(v any) error {
			if v.(float64) <= 0 {
				return validation.NewError("validation_price_positive", "must be greater than 0")
			}
			return nil
		})),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.Category, validation.Required),
	)
}

// ServiceInput is the write form of a workshop service.
type ServiceInput struct {
	NameService string `json:"nameService"`
	Type        string `json:"type"`
	Price       int    `json:"price"`
}

func (in ServiceInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.NameService, validation.Required),
		validation.Field(&in.Type, validation.Required),
		validation.Field(&in.Price, validation.Min(0)),
	)
}

func (in ServiceInput) fields() map[string]any {
	return map[string]any{
		"name_service": in.NameService,
		"type":         in.Type,
		"price":        in.Price,
	}
}

// VehicleInput is the write form of a customer vehicle.
type VehicleInput struct {
	VehicleName  string `json:"vehicleName"`
	IDUser       string `json:"idUser"`
	VIN          string `json:"vin"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Color        string `json:"color"`
	LicensePlate string `json:"licensePlate"`
	KM           int    `json:"km"`
	PurchaseDate string `json:"purchaseDate"`
}

func (in VehicleInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.VehicleName, validation.Required),
		validation.Field(&in.IDUser, validation.Required),
		validation.Field(&in.KM, validation.Min(0)),
	)
}

func (in VehicleInput) fields() map[string]any {
	f := in.updateFields()
	f["km"] = in.KM
	f["purchase_date"] = in.PurchaseDate
	return f
}

// updateFields is the set an update may touch. Mileage and purchase date are
// only written on create.
func (in VehicleInput) updateFields() map[string]any {
	return map[string]any{
		"vehicle_name":  in.VehicleName,
		"brand":         in.Brand,
		"model":         in.Model,
		"id_user":       in.IDUser,
		"vin_num":       in.VIN,
		"color":         in.Color,
		"license_plate": in.LicensePlate,
	}
}

// RepairScheduleInput updates a booked repair. Staff is a user id.
type RepairScheduleInput struct {
	CarName     string    `json:"carname"`
	CarType     string    `json:"cartype"`
	Date        time.Time `json:"date"`
	Service     string    `json:"service"`
	Staff       string    `json:"staff"`
	UID         string    `json:"uid"`
	UserName    string    `json:"username"`
	Status      string    `json:"status"`
	StatusCheck string    `json:"statusCheck"`
}

func (in RepairScheduleInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.CarName, validation.Required),
		validation.Field(&in.CarType, validation.Required),
		validation.Field(&in.Date, validation.Required),
		validation.Field(&in.Service, validation.Required),
		validation.Field(&in.UID, validation.Required),
		validation.Field(&in.UserName, validation.Required),
		validation.Field(&in.Status, validation.Required),
	)
}

func (in RepairScheduleInput) fields() map[string]any {
	f := map[string]any{
		"carName":  in.CarName,
		"carType":  in.CarType,
		"date":     in.Date.UTC(),
		"service":  in.Service,
		"uid":      in.UID,
		"userName": in.UserName,
		"status":   in.Status,
	}
	if in.Staff != "" {
		f["staff"] = in.Staff
	}
	if in.StatusCheck != "" {
		f["statusCheck"] = in.StatusCheck
	}
	return f
}

// TestDriveInput reschedules or changes the status of a test drive.
type TestDriveInput struct {
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
}

func (in TestDriveInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Date, validation.Required),
		validation.Field(&in.Status, validation.Required),
	)
}

func (in TestDriveInput) fields() map[string]any {
	return map[string]any{"date": in.Date.UTC(), "status": in.Status}
}

// UserInput is the write form of a user profile. Phone numbers are stored in
// +84 international form.
type UserInput struct {
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsActive bool   `json:"isActive"`
}

func (in UserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required),
		validation.Field(&in.Fullname, validation.Required),
		validation.Field(&in.Email, validation.Required, validation.Match(emailPattern)),
		validation.Field(&in.Phone, validation.By(func(v any) error {
			s := v.(string)
			if s == "" {
				return nil
			}
			if !phonePattern.MatchString(NormalizePhone(s)) {
				return validation.NewError("validation_phone_format", "must be +84 followed by 9 to 10 digits")
			}
			return nil
		})),
	)
}

// fields leaves phone out when it is blank so an update keeps the stored number.
func (in UserInput) fields() map[string]any {
	f := map[string]any{
		"username": in.Username,
		"fullname": in.Fullname,
		"email":    in.Email,
		"address":  in.Address,
		"isActive": in.IsActive,
	}
	if in.Phone != "" {
		f["phone"] = NormalizePhone(in.Phone)
	}
	return f
}

// NormalizePhone turns a local Vietnamese number into +84 form.
// "0901234567" and "901234567" both become "+84901234567".
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+84") {
		return s
	}
	return "+84" + strings.TrimPrefix(s, "0")
}

// ReviewQuery narrows a review listing. StaffName selects one staff member's
// reviews by full name; Search filters the result.
type ReviewQuery struct {
	StaffName string
	Search    string
}

// ErrIDRequired is returned when an update or delete names no document.
var ErrIDRequired = errors.New("id is required")
