// Package reactive turns a plain nested State into a tree of reactive cells
// that is still read and written key by key.
//
//	user := reactive.New(reactive.State{
//	    "name": "Ada",
//	    "address": reactive.State{"city": "London"},
//	})
//
//	user.Get("name")               // "Ada", a tracked read of its cell
//	addr, _ := user.Child("address")
//	addr.Get("city")               // "London"
//	user.Set("address", reactive.State{"city": "Paris"}) // merged in place
//	reactive.Raw(user)             // State{"name": "Ada", "address": State{"city": "Paris"}}
//
// # Deep and shallow
//
// New recurses into nested objects, giving every leaf its own cell.
// NewShallow gives every top-level key exactly one cell and boxes nested
// objects whole.
//
// # Write rules
//
// The key set of a Reactive is fixed at construction. Set refuses unknown
// keys, function keys and *Reactive values; see Reactive.Set for the full
// contract. Every failure is a coded error comparable with errors.Is against
// the Err* sentinels of this package.
//
// # Escape hatches
//
// Raw and ToCell (or the Helpers returned by Reactive.Helpers) give access to
// the plain value and to the underlying vango.AnySignal of a key. They are
// kept apart from Get/Set so that ordinary key access never sees them.
//
// # Memoized constructors
//
// UseReactive, UseShallowReactive and UseCell keep their result stable
// across repeated renders of a vango.Owner for unchanged inputs.
package reactive
