package repositories

import (
	"github.com/desertthunder/raocow/internal/graph"
	"github.com/desertthunder/raocow/internal/models"
)

// VideoRepository persists [models.Video] nodes. Videos carry no updated timestamp.
type VideoRepository struct {
	*entityRepository[*models.Video]
}

// NewVideoRepository creates a [VideoRepository] over store.
func NewVideoRepository(store graph.Store, ids *IDAllocator, opts Options) *VideoRepository {
	return &VideoRepository{newEntityRepository(store, ids, videoCodec, opts)}
}

var videoCodec = codec[*models.Video]{
	kind: models.KindVideo,
	encode: func(v *models.Video) graph.Props {
		return graph.Props{
			"youtubeId": v.YoutubeID,
			"title":     v.Title,
			"published": graph.FormatTime(v.Published),
		}
	},
	decode: func(n *graph.Node) *models.Video {
		v := models.NewVideo(n.Props.String("youtubeId"), n.Props.String("title"), n.Props.Time("published"))
		v.SetID(n.ID)
		return v
	},
}
