package listings

import "html/template"

type moderationLinks struct {
	Approve string
	Check   string
}

type adminMailData struct {
	Listing PublicListing
	Links   moderationLinks
}

type deactivatedMailData struct {
	Title string
	Link  string
}

var adminMailTemplate = template.Must(template.New("admin").Parse(`<p>A new listing is waiting for approval.</p>
<p><strong>{{.Listing.Title}}</strong> ({{.Listing.Section}})</p>
<p>{{.Listing.Description}}</p>
<p><a href="{{.Links.Check}}">Review</a> | <a href="{{.Links.Approve}}">Approve</a></p>
`))

var deactivatedMailTemplate = template.Must(template.New("deactivated").Parse(`<p>Your listing <strong>{{.Title}}</strong> has been deactivated and is no longer visible.</p>
<p>Changed your mind? <a href="{{.Link}}">Reactivate it</a> with the same secret code.</p>
`))
