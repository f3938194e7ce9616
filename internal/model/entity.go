package model

import (
	"strconv"
	"time"
)

// Entity is the closed set of shapes produced by projection. The unexported
// method keeps implementations inside this package.
type Entity interface {
	// SearchFields returns the values a search query is matched against.
	SearchFields() []string
	entity()
}

// Banner is a news banner shown on the client home screen.
type Banner struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	NewsContent string    `json:"newsContent"`
	CreatedAt   time.Time `json:"createdAt"`
	ImageURL    string    `json:"imageUrl"`
}

// Product is a catalogue item (vehicle, part or accessory).
type Product struct {
	ID          string    `json:"id"`
	NameProduct string    `json:"nameProduct"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	AddedDate   time.Time `json:"addedDate"`
	ImageURL    string    `json:"imageUrl"`
}

// Service is a maintenance service offered by the workshop.
type Service struct {
	ID          string `json:"idService"`
	NameService string `json:"nameService"`
	Type        string `json:"type"`
	Price       int    `json:"price"`
}

// Vehicle is a customer-owned vehicle.
type Vehicle struct {
	ID           string `json:"id"`
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

// RepairSchedule is a booked repair. Staff holds the assigned staff member's
// display name, not the stored reference.
type RepairSchedule struct {
	ID                string    `json:"id"`
	CarName           string    `json:"carname"`
	CarType           string    `json:"cartype"`
	DamageDescription string    `json:"damageDescription"`
	Date              time.Time `json:"date"`
	Service           string    `json:"service"`
	Staff             string    `json:"staff"`
	UID               string    `json:"uid"`
	UserName          string    `json:"username"`
	Status            string    `json:"status"`
	StatusCheck       string    `json:"statusCheck"`
	ImageURLs         []string  `json:"imageUrls"`
}

// TestDriveSchedule is a booked test drive for a product.
type TestDriveSchedule struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
	UID         string    `json:"uid"`
	UserName    string    `json:"userName"`
}

// ServiceBill is one billed line of a BillDetail.
type ServiceBill struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// BillDetail is an issued bill. Date is kept as the client wrote it.
type BillDetail struct {
	ID           string        `json:"id"`
	CustomerUID  string        `json:"customerUid"`
	CustomerName string        `json:"customerName"`
	CarName      string        `json:"carName"`
	Date         string        `json:"date"`
	CreatedAt    time.Time     `json:"createdAt"`
	Services     []ServiceBill `json:"services"`
	TotalCost    float64       `json:"totalCost"`
	StaffName    string        `json:"staffName"`
}

// Review is a customer rating of a completed schedule.
type Review struct {
	ID         string    `json:"id"`
	Comment    string    `json:"comment"`
	Rating     int       `json:"rating"`
	ScheduleID string    `json:"scheduleId"`
	StaffID    string    `json:"staffId"`
	CreatedAt  time.Time `json:"createdAt"`
	StaffName  string    `json:"staffName"`
}

// User is a customer or staff profile.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsActive bool   `json:"isActive"`
	UID      string `json:"uid"`
}

func (b Banner) SearchFields() []string { return []string{b.Title} }

func (p Product) SearchFields() []string {
	return []string{p.NameProduct, p.Description, p.Category, strconv.FormatFloat(p.Price, 'f', -1, 64)}
}

func (s Service) SearchFields() []string {
	return []string{s.NameService, s.Type, strconv.Itoa(s.Price)}
}

func (v Vehicle) SearchFields() []string {
	return []string{v.Model, v.Brand, v.VIN, v.LicensePlate, v.VehicleName}
}

func (r RepairSchedule) SearchFields() []string {
	return []string{r.UserName, r.CarName, r.CarType, r.Service, r.Staff, r.Status}
}

func (t TestDriveSchedule) SearchFields() []string {
	return []string{t.ProductName, t.UserName, t.Status}
}

func (b BillDetail) SearchFields() []string { return []string{b.CustomerName, b.StaffName} }

func (r Review) SearchFields() []string { return []string{r.Comment, r.StaffName} }

func (u User) SearchFields() []string {
	return []string{u.Username, u.Fullname, u.Email, u.Address}
}

func (Banner) entity()            {}
func (Product) entity()           {}
func (Service) entity()           {}
func (Vehicle) entity()           {}
func (RepairSchedule) entity()    {}
func (TestDriveSchedule) entity() {}
func (BillDetail) entity()        {}
func (Review) entity()            {}
func (User) entity()              {}
