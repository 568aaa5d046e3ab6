// Package registry loads stage manifests and turns them into the factory
// listing the catalog indexes.
//
// Manifests are HCL files declaring `stage` blocks with capability roles:
//
//	stage "colorconvert" {
//	  description = "Converts between raw video pixel formats."
//
//	  input {
//	    media  = "video/x-raw"
//	    format = ["RGB", "I420"]
//	  }
//
//	  output {
//	    media  = "video/x-raw"
//	    format = ["RGB", "I420"]
//	  }
//	}
//
// The registry preserves manifest order, because catalog order is the
// tie-break for equal-length chains and must be reproducible. It performs no
// eligibility filtering itself: a stage may declare any number of roles here,
// and the catalog build decides what participates in linear chain search.
package registry
