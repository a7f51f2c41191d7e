// Package acl is the anti-corruption layer in front of the terminology
// service. Its wire types never leave the package: responses are decoded
// into unexported DTOs, checked, and translated into domain tags, and HTTP
// failures are mapped onto domain errors.
//
// The terminology service answers
//
//	GET {base}/concept-name-tags?name=<tag>
//
// with an OpenMRS-style result envelope:
//
//	{"results": [{"uuid": "...", "tag": "preferred", "voided": false, ...}]}
//
// An empty result list and a 404 both mean "no such tag".
package acl
