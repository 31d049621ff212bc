// Package pipeline runs the hotseat build as a sequence of steps.
//
// Each step consumes the files an earlier step wrote: seat pages, then the
// QR codes pointing at them, then the plate sheets embedding those codes,
// then the patches applied to the pages. Steps record artifacts and
// warnings on a shared model.Run.
package pipeline
