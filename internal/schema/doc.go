// Package schema validates and transforms structured (YAML/JSON) pages.
//
// A schema is a CUE file named after its mime (ManagedReference.cue) that
// defines a #Schema definition. An optional #Markdown list names top-level
// string properties holding markdown; Transform renders them to HTML.
//
//	#Schema: {
//		uid!:     string
//		summary?: string
//	}
//	#Markdown: ["summary"]
package schema
