// Package tmpl implements the sitegen template mini-language.
//
// A template is plain text with brace-delimited tags:
//
//	{{ include: header.html }}              include another template verbatim
//	{{ if page.author }} ... {{ endif }}    keep the block only if page.author is set
//	{{ page.title }} {{ site.base_path }}   variable substitution
//	{{ main_content }}                      rendered body of the page
//	{{ foreach posts }} ... {{ endforeach }} listing loop, replaced by caller output
//	{{ if no_posts }} ... {{ endif }}       listing empty state
//
// Each tag kind is handled by a Transform. Callers compose transforms in a
// fixed order (include, conditional, variable); Pipeline returns that chain.
// Transforms never fail: tags that do not match their syntax are left in the
// output untouched.
package tmpl
