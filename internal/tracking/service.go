package tracking

import (
	"context"
	"strings"
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/config"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
)

// Location is one stop on a shipment's route.
type Location struct {
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"`
}

// Shipment is the tracking state of a single parcel.
type Shipment struct {
	TrackingNumber    string     `json:"trackingNumber"`
	Carrier           string     `json:"carrier"`
	CurrentLocation   Location   `json:"currentLocation"`
	EstimatedDelivery time.Time  `json:"estimatedDelivery"`
	Route             []Location `json:"route"`
}

// Service resolves shipment positions by tracking number.
type Service interface {
	TrackShipment(ctx context.Context, trackingNumber, carrier string) (*Shipment, error)
}

type service struct {
	cfg config.TrackingConfig

	now func() time.Time
}

// NewService builds the tracking service. Until a carrier API is wired via
// config, positions come from the built-in demo generator.
func NewService(cfg config.TrackingConfig) Service {
	return &service{cfg: cfg, now: time.Now}
}

func (s *service) TrackShipment(ctx context.Context, trackingNumber, carrier string) (*Shipment, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number is required")
	}
	if carrier = strings.TrimSpace(carrier); carrier == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "carrier is required")
	}

	// TODO(tracking): call cfg.CarrierAPIURL once a carrier account exists.
	return s.mockShipment(trackingNumber, carrier), nil
}

// mockShipment fabricates a parcel that left Riyadh three days ago and is
// due in Unaizah tomorrow. The reported position moves with the hour of day
// so repeated lookups feel live.
func (s *service) mockShipment(trackingNumber, carrier string) *Shipment {
	now := s.now()
	day := 24 * time.Hour

	route := []Location{
		{Lat: 24.7136, Lng: 46.6753, Description: "تم شحن الطلب من مستودع الرياض", Timestamp: now.Add(-3 * day), Status: "shipped"},
		{Lat: 24.9406, Lng: 46.3694, Description: "وصل الطلب إلى مركز التوزيع في الخرج", Timestamp: now.Add(-2 * day), Status: "in_transit"},
		{Lat: 25.4302, Lng: 45.9716, Description: "في الطريق إلى وجهته النهائية عبر المجمعة", Timestamp: now.Add(-day), Status: "in_transit"},
		{Lat: 26.0853, Lng: 45.3694, Description: "جاري التوصيل في منطقة شقراء", Timestamp: now, Status: "out_for_delivery"},
		{Lat: 26.3126, Lng: 43.7695, Description: "الوجهة النهائية - عنيزة", Timestamp: now.Add(day), Status: "estimated_delivery"},
	}

	current := 3
	switch hour := now.Hour(); {
	case hour < 8:
		current = 2
	case hour > 18:
		current = 4
	}

	return &Shipment{
		TrackingNumber:    trackingNumber,
		Carrier:           carrier,
		CurrentLocation:   route[current],
		EstimatedDelivery: route[len(route)-1].Timestamp,
		Route:             route,
	}
}
