package enrich

import (
	"time"

	"github.com/guregu/null"
	log "github.com/sirupsen/logrus"

	"github.com/zirius/linkcloak/models"
	"github.com/zirius/linkcloak/modules/geo"
	"github.com/zirius/linkcloak/modules/ipaddr"
	"github.com/zirius/linkcloak/modules/queue"
	"github.com/zirius/linkcloak/modules/ua"
)

// VisitStore is the append capability the worker needs.
type VisitStore interface {
	CreateVisit(visit *models.Visit) error
}

// Worker turns a dispatched enrichment request into a persisted visit:
// normalize the address, classify the user agent, resolve or sentinel the
// location, merge coordinates, append. Everything here is best-effort; a
// failure is logged and the visit is lost, never retried, because the
// redirect it belongs to has long been answered.
type Worker struct {
	store VisitStore
	geo   geo.Resolver
}

func NewWorker(store VisitStore, resolver geo.Resolver) *Worker {
	return &Worker{
		store: store,
		geo:   resolver,
	}
}

func (w *Worker) Process(request queue.EnrichVisitRequest) {
	logEntry := log.WithFields(log.Fields{
		"link_id": request.LinkID,
		"ip":      request.IP,
	})

	ip := ipaddr.Normalize(request.IP)
	info := ua.Classify(request.Signals.UserAgent)

	var location *models.GeoLocation
	var fromResolver bool
	if ipaddr.IsPrivate(ip) {
		location = geo.PrivateNetworkLocation()
	} else {
		resolved, err := w.geo.Resolve(ip)
		if err != nil {
			logEntry.WithError(err).Warn("geo lookup degraded")
		} else {
			location = resolved
			fromResolver = true
		}
	}

	visit := models.Visit{
		LinkID:     request.LinkID,
		IP:         ip,
		DeviceType: info.DeviceType(),
		UserAgent:  request.Signals.UserAgent,
		Created:    time.Now(),
	}
	if browser := info.Browser(); browser != "" {
		visit.Browser = null.StringFrom(browser)
	}
	if osName := info.OS(); osName != "" {
		visit.OS = null.StringFrom(osName)
	}
	if request.Signals.Referrer != "" {
		visit.Referrer = null.StringFrom(request.Signals.Referrer)
	}
	if location != nil {
		visit.Country = null.StringFrom(location.Country)
		visit.City = null.StringFrom(location.City)
		visit.ISP = null.StringFrom(location.ISP)
	}

	// Client GPS always wins; resolver coordinates only fill a missing
	// pair, so the persisted values are never a mix of the two sources.
	if request.Signals.HasGPS() {
		visit.Latitude = null.FloatFromPtr(request.Signals.Latitude)
		visit.Longitude = null.FloatFromPtr(request.Signals.Longitude)
		visit.Accuracy = null.FloatFromPtr(request.Signals.Accuracy)
	} else if fromResolver {
		visit.Latitude = null.FloatFrom(location.Latitude)
		visit.Longitude = null.FloatFrom(location.Longitude)
	}

	properties := models.PropertyMap{}
	if request.Signals.Screen != "" {
		properties["screen"] = request.Signals.Screen
	}
	if request.Signals.Language != "" {
		properties["language"] = request.Signals.Language
	}
	if len(properties) > 0 {
		visit.Properties = properties
	}

	if err := w.store.CreateVisit(&visit); err != nil {
		logEntry.WithError(err).Error("error writing visit")
		return
	}

	logEntry.WithFields(log.Fields{
		"device_type": visit.DeviceType,
		"country":     visit.Country.String,
		"city":        visit.City.String,
	}).Info("Logged visit")
}
