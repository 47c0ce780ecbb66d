// Package translation keeps track of translation resources: JSON documents
// addressed by a language tag and a namespace, such as en-US/common.json.
//
// Resources are registered with a Manager, either one by one or through
// discovery of a directory tree laid out as <lng>/<namespace>.json. Content
// is read through the resource's Location on demand and cached.
package translation
