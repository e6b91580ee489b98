/*
Package narrative implements the narrative-family collaborator: it turns
an analysis.Result into a short templated sentence on narrative.generated.
Real natural-language generation (the LLM prompt construction spec.md §1
excludes) is out of scope; the template exists to exercise the publish
path with a realistic payload shape.
*/
package narrative
