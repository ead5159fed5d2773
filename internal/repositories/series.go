package repositories

import (
	"time"

	"github.com/desertthunder/raocow/internal/graph"
	"github.com/desertthunder/raocow/internal/models"
)

// SeriesRepository persists [models.Series] nodes.
type SeriesRepository struct {
	*entityRepository[*models.Series]
}

// NewSeriesRepository creates a [SeriesRepository] over store.
func NewSeriesRepository(store graph.Store, ids *IDAllocator, opts Options) *SeriesRepository {
	return &SeriesRepository{newEntityRepository(store, ids, seriesCodec, opts)}
}

var seriesCodec = codec[*models.Series]{
	kind: models.KindSeries,
	encode: func(s *models.Series) graph.Props {
		return graph.Props{"name": s.Name}
	},
	decode: func(n *graph.Node) *models.Series {
		s := models.NewSeries(n.Props.String("name"))
		s.SetID(n.ID)
		s.Updated = n.Props.Time(propUpdated)
		return s
	},
	touch: func(s *models.Series, t time.Time) { s.Updated = t },
}
