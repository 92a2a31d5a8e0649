// Package main provides the entry point for the designguide CLI.
//
// designguide captures a website's visual design: scrolling screenshots,
// landmark elements with their computed styles, and a markdown design guide
// precise enough to recreate the page.
//
// Usage:
//
//	designguide extract https://example.com
//	designguide screenshot https://example.com -o shot.png
//	designguide serve -d ./output
//
// See --help for all available options.
package main

// main is the entry point for designguide.
func main() {
	Execute()
}
