// Package source loads route tables from where the build step publishes them.
//
// A Loader produces a validated table; a Versioner reports a cheap token that
// changes whenever the underlying manifest does. The Watcher combines the two
// to reload a table only when its manifest changed:
//
//	src := source.NewFile("build/routes.js")
//	w := source.NewWatcher(source.WatcherConfig{Loader: src, Interval: 2 * time.Second})
//	w.OnReload(func(t *routetable.Table) { live.Swap(t) })
//	go w.Start(ctx)
package source
