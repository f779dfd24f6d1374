package celestial

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	geoclueService  = "org.freedesktop.GeoClue2"
	geoclueManager  = geoclueService + ".Manager"
	geoclueClient   = geoclueService + ".Client"
	geoclueLocation = geoclueService + ".Location"

	geoclueManagerPath = dbus.ObjectPath("/org/freedesktop/GeoClue2/Manager")

	propertiesGet = "org.freedesktop.DBus.Properties.Get"
	propertiesSet = "org.freedesktop.DBus.Properties.Set"
)

// GeoClue accuracy levels.
const (
	AccuracyCountry uint32 = 1
	AccuracyCity    uint32 = 4
	AccuracyStreet  uint32 = 6
	AccuracyExact   uint32 = 8
)

// GeoClue asks the GeoClue2 service on the system bus for the device's
// position. Every Locate call creates, starts and deletes its own client.
type GeoClue struct {
	DesktopID    string
	Accuracy     uint32
	PollInterval time.Duration
}

// NewGeoClue returns a city-accuracy locator identifying as desktopID.
func NewGeoClue(desktopID string) *GeoClue {
	return &GeoClue{
		DesktopID:    desktopID,
		Accuracy:     AccuracyCity,
		PollInterval: 250 * time.Millisecond,
	}
}

func (g *GeoClue) Locate(ctx context.Context) (Coordinates, error) {
	conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: system bus: %v", ErrUnsupported, err)
	}
	defer conn.Close()

	manager := conn.Object(geoclueService, geoclueManagerPath)

	var clientPath dbus.ObjectPath
	if err := manager.CallWithContext(ctx, geoclueManager+".GetClient", 0).Store(&clientPath); err != nil {
		return Coordinates{}, classifyBusError("get client", err)
	}
	defer manager.Call(geoclueManager+".DeleteClient", 0, clientPath)

	client := conn.Object(geoclueService, clientPath)
	if err := setProperty(ctx, client, geoclueClient, "DesktopId", g.DesktopID); err != nil {
		return Coordinates{}, classifyBusError("set desktop id", err)
	}
	if err := setProperty(ctx, client, geoclueClient, "RequestedAccuracyLevel", g.Accuracy); err != nil {
		return Coordinates{}, classifyBusError("set accuracy", err)
	}
	if err := client.CallWithContext(ctx, geoclueClient+".Start", 0).Err; err != nil {
		return Coordinates{}, classifyBusError("start client", err)
	}
	defer client.Call(geoclueClient+".Stop", 0)

	locPath, err := g.waitLocation(ctx, client)
	if err != nil {
		return Coordinates{}, err
	}

	loc := conn.Object(geoclueService, locPath)
	lat, err := getProperty[float64](ctx, loc, geoclueLocation, "Latitude")
	if err != nil {
		return Coordinates{}, classifyBusError("read latitude", err)
	}
	lon, err := getProperty[float64](ctx, loc, geoclueLocation, "Longitude")
	if err != nil {
		return Coordinates{}, classifyBusError("read longitude", err)
	}

	c := Coordinates{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}

// waitLocation polls the client's Location property until GeoClue publishes
// a fix. "/" means no fix yet.
func (g *GeoClue) waitLocation(ctx context.Context, client dbus.BusObject) (dbus.ObjectPath, error) {
	interval := g.PollInterval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		path, err := getProperty[dbus.ObjectPath](ctx, client, geoclueClient, "Location")
		if err != nil {
			return "", classifyBusError("read location", err)
		}
		if path != "/" && path.IsValid() {
			return path, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
}

func setProperty(ctx context.Context, obj dbus.BusObject, iface, name string, v any) error {
	return obj.CallWithContext(ctx, propertiesSet, 0, iface, name, dbus.MakeVariant(v)).Err
}

func getProperty[T any](ctx context.Context, obj dbus.BusObject, iface, name string) (T, error) {
	var zero T
	var v dbus.Variant
	if err := obj.CallWithContext(ctx, propertiesGet, 0, iface, name).Store(&v); err != nil {
		return zero, err
	}
	val, ok := v.Value().(T)
	if !ok {
		return zero, fmt.Errorf("property %s.%s has type %s", iface, name, v.Signature())
	}
	return val, nil
}

func classifyBusError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var busErr dbus.Error
	if errors.As(err, &busErr) {
		switch {
		case strings.HasSuffix(busErr.Name, ".AccessDenied"):
			return fmt.Errorf("%w: %s: %v", ErrDenied, op, err)
		case strings.HasSuffix(busErr.Name, ".ServiceUnknown"),
			strings.HasSuffix(busErr.Name, ".NameHasNoOwner"):
			return fmt.Errorf("%w: %s: %v", ErrUnsupported, op, err)
		}
	}
	return fmt.Errorf("geoclue %s: %w", op, err)
}
