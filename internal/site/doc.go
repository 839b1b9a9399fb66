// Package site runs a full site build.
//
// A build is a fixed sequence of stages executed on one goroutine:
//
//	clean -> load_templates -> load_content -> render_posts -> render_listing
//	      -> render_pages -> render_home -> verify_links
//
// The first fatal stage error aborts the build. Nothing is retried and files
// written before the failure stay in place. verify_links only ever produces
// warnings.
package site
