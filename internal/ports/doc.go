// Package ports defines interfaces between layers in the hexagonal
// architecture. Service ports are implemented by the application layer and
// called by HTTP handlers. The Store port is implemented by storage
// adapters and called by the application layer.
package ports
