package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/config"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
)

func newTestService(t *testing.T, at time.Time) *service {
	t.Helper()
	svc := NewService(config.TrackingConfig{}).(*service)
	svc.now = func() time.Time { return at }
	return svc
}

func TestTrackShipmentBuildsRoute(t *testing.T) {
	noon := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, noon)

	shipment, err := svc.TrackShipment(context.Background(), "TRK-1001", "aramex")
	if err != nil {
		t.Fatalf("TrackShipment: %v", err)
	}
	if shipment.TrackingNumber != "TRK-1001" || shipment.Carrier != "aramex" {
		t.Errorf("unexpected identity: %+v", shipment)
	}
	if len(shipment.Route) != 5 {
		t.Fatalf("expected 5 stops, got %d", len(shipment.Route))
	}
	if shipment.Route[0].Status != "shipped" || !shipment.Route[0].Timestamp.Equal(noon.Add(-72*time.Hour)) {
		t.Errorf("unexpected origin: %+v", shipment.Route[0])
	}
	last := shipment.Route[len(shipment.Route)-1]
	if last.Status != "estimated_delivery" || !shipment.EstimatedDelivery.Equal(noon.Add(24*time.Hour)) {
		t.Errorf("unexpected destination: %+v", last)
	}
}

func TestTrackShipmentPositionFollowsClock(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{6, "in_transit"},
		{12, "out_for_delivery"},
		{21, "estimated_delivery"},
	}
	for _, tc := range cases {
		at := time.Date(2025, 3, 15, tc.hour, 0, 0, 0, time.UTC)
		svc := newTestService(t, at)

		shipment, err := svc.TrackShipment(context.Background(), "TRK-1001", "smsa")
		if err != nil {
			t.Fatalf("TrackShipment at %02d:00: %v", tc.hour, err)
		}
		if shipment.CurrentLocation.Status != tc.want {
			t.Errorf("at %02d:00 current status = %s, want %s", tc.hour, shipment.CurrentLocation.Status, tc.want)
		}
	}
}

func TestTrackShipmentValidatesInput(t *testing.T) {
	svc := newTestService(t, time.Now())

	for _, tc := range []struct{ number, carrier string }{
		{"", "aramex"},
		{"  ", "aramex"},
		{"TRK-1", ""},
	} {
		_, err := svc.TrackShipment(context.Background(), tc.number, tc.carrier)
		var appErr *pkgerrors.Error
		if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeValidation {
			t.Errorf("TrackShipment(%q, %q): expected validation error, got %v", tc.number, tc.carrier, err)
		}
	}
}
