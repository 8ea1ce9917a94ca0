package domain

import "strings"

type Driver struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	LicenseNumber string  `json:"license_number"`
	VehicleModel  string  `json:"vehicle_model"`
	VehiclePlate  string  `json:"vehicle_plate"`
	Available     bool    `json:"available"`
	Rating        float64 `json:"rating,omitempty"`
}

func (d Driver) Validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return Invalid("name", "Driver name is required")
	case strings.TrimSpace(d.LicenseNumber) == "":
		return Invalid("license_number", "License number is required")
	}
	return nil
}

// Trip is a ride as seen from the driver's side.
type Trip struct {
	ID              int64      `json:"id"`
	CustomerName    string     `json:"customer_name"`
	PickupLocation  string     `json:"pickup_location"`
	DropoffLocation string     `json:"dropoff_location"`
	PickupDateTime  string     `json:"pickup_date_time"`
	Status          RideStatus `json:"status"`
	Price           float64    `json:"price"`
}

type MetricName string

const (
	MetricTotalBookings  MetricName = "total-bookings"
	MetricTotalRevenue   MetricName = "total-revenue"
	MetricActiveDrivers  MetricName = "active-drivers"
	MetricTotalHotels    MetricName = "total-hotels"
	MetricTotalCustomers MetricName = "total-customers"
)

var DashboardMetrics = []MetricName{
	MetricTotalBookings, MetricTotalRevenue, MetricActiveDrivers, MetricTotalHotels, MetricTotalCustomers,
}

type Metric struct {
	Name  MetricName `json:"name"`
	Value float64    `json:"value"`
}
