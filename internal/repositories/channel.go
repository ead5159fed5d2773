package repositories

import (
	"time"

	"github.com/desertthunder/raocow/internal/graph"
	"github.com/desertthunder/raocow/internal/models"
)

// ChannelRepository persists [models.Channel] nodes.
type ChannelRepository struct {
	*entityRepository[*models.Channel]
}

// NewChannelRepository creates a [ChannelRepository] over store.
func NewChannelRepository(store graph.Store, ids *IDAllocator, opts Options) *ChannelRepository {
	return &ChannelRepository{newEntityRepository(store, ids, channelCodec, opts)}
}

var channelCodec = codec[*models.Channel]{
	kind: models.KindChannel,
	encode: func(c *models.Channel) graph.Props {
		return graph.Props{"youtubeId": c.YoutubeID, "name": c.Name}
	},
	decode: func(n *graph.Node) *models.Channel {
		c := models.NewChannel(n.Props.String("youtubeId"), n.Props.String("name"))
		c.SetID(n.ID)
		c.Updated = n.Props.Time(propUpdated)
		return c
	},
	touch: func(c *models.Channel, t time.Time) { c.Updated = t },
}
