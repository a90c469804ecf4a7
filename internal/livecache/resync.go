package livecache

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Invalidatable interface {
	Table() string
	Invalidate()
}

// Resync periodically invalidates every registered cache so a notification
// lost while the channel was down is eventually caught up.
type Resync struct {
	cron   *cron.Cron
	spec   string
	caches []Invalidatable
	log    *logrus.Entry
}

func NewResync(interval time.Duration, caches ...Invalidatable) *Resync {
	return &Resync{
		cron:   cron.New(),
		spec:   fmt.Sprintf("@every %s", interval),
		caches: caches,
		log:    logrus.WithField("component", "resync"),
	}
}

func (r *Resync) Start() error {
	if _, err := r.cron.AddFunc(r.spec, r.Run); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	r.cron.Start()
	r.log.WithField("spec", r.spec).Info("cache resync started")
	return nil
}

// Run invalidates every cache once.
func (r *Resync) Run() {
	for _, c := range r.caches {
		r.log.WithField("table", c.Table()).Debug("resync")
		c.Invalidate()
	}
}

func (r *Resync) Stop() {
	<-r.cron.Stop().Done()
	r.log.Info("cache resync stopped")
}
