package render

// shortTags are void elements: they never have content or a closing tag.
var shortTags = map[string]bool{
	"area":     true,
	"base":     true,
	"br":       true,
	"col":      true,
	"command":  true,
	"embed":    true,
	"hr":       true,
	"img":      true,
	"input":    true,
	"keygen":   true,
	"link":     true,
	"menuitem": true,
	"meta":     true,
	"param":    true,
	"source":   true,
	"track":    true,
	"wbr":      true,
}

// IsShortTag returns true if the tag is a void element.
func IsShortTag(tag string) bool {
	return shortTags[tag]
}

// optionalEndTags are elements whose end tag may be omitted.
//
// html4: https://html.spec.whatwg.org/multipage/syntax.html#optional-tags
// html5: https://www.w3.org/TR/html5/syntax.html#optional-tags
// Neither dl tag is omissible.
var optionalEndTags = map[string]bool{
	"html":     true,
	"head":     true,
	"body":     true,
	"p":        true,
	"ul":       true,
	"ol":       true,
	"li":       true,
	"dt":       true,
	"dd":       true,
	"colgroup": true,
	"thead":    true,
	"tbody":    true,
	"tfoot":    true,
	"tr":       true,
	"th":       true,
	"td":       true,
	"option":   true,
	"rb":       true,
	"rt":       true,
	"rtc":      true,
	"rp":       true,
	"optgroup": true,
}

// HasOptionalEndTag returns true if the end tag of tag may be omitted.
func HasOptionalEndTag(tag string) bool {
	return optionalEndTags[tag]
}
