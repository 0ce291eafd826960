// Package graft is a reflection-based dependency resolution runtime.
//
// Bindings associate a key, a type optionally refined by a qualifier, with
// a recipe for producing values: a concrete type, a constructor function, a
// pre-built instance, or a Provider. An Injector resolves keys on demand,
// walking struct fields and constructor parameters recursively and caching
// results according to each binding's scope.
//
// Configuration happens up front, resolution afterwards:
//
//	cfg := graft.NewConfig(func(c *graft.Config) {
//		graft.MustBind[Store, *PostgresStore](c, graft.AsSingleton())
//		graft.MustBindValue[*Settings](c, loadSettings())
//		graft.MustBindFactory[*Mailer](c, NewMailer)
//	})
//	in := graft.NewInjector(cfg)
//
//	store, err := graft.Inject[Store](in)
//
// Scopes decide how long resolved values live: transient bindings build a
// fresh value per resolution, SingletonScope caches per scope instance, and
// GlobalSingletonScope shares values process-wide across injectors.
//
// Beyond plain type bindings the runtime supports qualified keys
// (BindNamed), set and list multibindings materialized into map[T]struct{}
// and []T injection sites, chain handlers looked up by category and name,
// lazy func() T parameters, Optional[T] sites that fold absence instead of
// failing, and catalog-backed discovery of implementations registered at
// package init (RegisterImplementation, RegisterModule).
//
// Resolution detects dependency cycles and reports the offending chain;
// break deliberate cycles with a provider-shaped parameter, which defers
// the nested resolution until first use.
package graft
