// Package sitebuild runs the build pipeline: load the spreadsheet, resolve
// every image, then stage images, QR codes, pages, static files and the
// optional PDF sheets before swapping the result into the output directory.
//
// Configuration problems, spreadsheet errors and missing images are all
// detected before the first byte is written. Any later failure, including
// cancellation, discards the stage so the previous output stays as it was.
package sitebuild
