// Package rank orders catalog hits by how well they fit a source record.
package rank
