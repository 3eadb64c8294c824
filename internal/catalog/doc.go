// Package catalog prepares an image folder for a build.
//
// Scan turns the images in a folder into spreadsheet entries ordered by
// capture time, and PlanRenames/ApplyRenames give every photo a
// timestamped JPEG file name. Both only plan until the caller asks them to
// write, so the CLI can show a preview first.
package catalog
