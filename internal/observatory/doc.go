// Package observatory models the equipment tree: a single root with nested
// components (telescope, cameras, focuser, filter wheel, switch, dome,
// rotator, safety monitor) built from the configuration mapping.
//
// # Architecture
//
// Components form a tree addressed by dotted system IDs ("obs.tele.ccd").
// Options attach to any node and resolve upward: a child without an
// "address" of its own uses the nearest ancestor that has one, and a node
// whose options carry "protocol" owns the Alpaca client its whole subtree
// talks through. This mirrors a real rig, where one ASCOM Remote server
// fronts every device on the mount.
//
// Concrete kinds embed a shared device base that knows how to reach the
// Alpaca endpoint; capability operations (slewing, moving a focuser,
// toggling a switch port) exist only on the kind that supports them, so a
// command for the wrong kind fails at compile time rather than on the wire.
// camera_file components are the exception: they never speak HTTP and are
// always treated as connected, with their state read from FITS files on
// disk by the publishing layer.
//
// # Usage
//
//	obs, err := observatory.Build(cfg.Observatory.TreeOptions())
//	if err != nil {
//		return err
//	}
//	comp, err := obs.ResolveAbsolute("obs.tele")
//	if err != nil {
//		return err
//	}
//	if tele, ok := comp.(*observatory.Telescope); ok {
//		err = tele.SlewToCoordinates(ctx, "05 34 31.94", "+22 00 52.2")
//	}
//
// State snapshots are plain maps keyed by the field names consumers already
// subscribe to; State implementations make one HTTP round trip per field
// and fail fast on the first transport error.
package observatory
