// package repositories persists catalog entities in a [graph.Store].
//
// Each entity kind has a repository ([ChannelRepository], [SeriesRepository],
// [VideoRepository]) built on the same generic CRUD core. New entities get a
// human-readable id from the [IDAllocator], which claims the id and writes the node in a
// single write transaction. Container membership (Channel or Series CONTAINS Video) is
// managed by [Relationships].
//
// Every operation returns an error whose category is recoverable with [errors.Is]:
// [shared.ErrValidation], [shared.ErrNotFound], [shared.ErrAllocationExhausted] or
// [shared.ErrStore].
//
//	set := repositories.New(store, repositories.Options{Logger: logger})
//	s := models.NewSeries("super marisa world")
//	if err := set.Series.Save(ctx, s); err != nil {
//		return err
//	}
//	fmt.Println(s.ID()) // super-marisa-world
package repositories
