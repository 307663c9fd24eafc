// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	DescriptionNotFoundId Id = iota + 1
	DescriptionParseErrorId
	ConstantCycleId
	InvalidResourceLocationId
	ArchiveOpenFailedId
	ArchiveEntryMissingId
	ModelDocumentMalformedId
	OutputWriteFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // resc documentation for this issue
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal markdown. stylePath is a glamour
// style name ("auto", "dark", "light") or a path to a style file.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	descriptionNotFoundIssue = &Issue{
		id: DescriptionNotFoundId,
		mdMsg: `
# Description file not found!

The description file passed as the second argument could not be read.

## Things you can try:
- Check the path for typos
- Pass the archive first and the description second:
~~~
$ resc client.jar models.yaml
~~~`,
	}

	descriptionParseErrorIssue = &Issue{
		id: DescriptionParseErrorId,
		mdMsg: `
# Failed to parse the description!

The description must be a mapping from item to a mapping of keys to models.

## Common issues:
- Invalid YAML, JSON, CUE or TOML syntax
- An item whose value is not a mapping
- A model that is a list, a mapping or null
- The same item or key listed twice

## Example description:
~~~yaml
__:
  fire: sword_fire
stick:
  "5": custom_stick
  fire: item/$1
~~~

Use --format when the file extension does not match the content.`,
	}

	constantCycleIssue = &Issue{
		id: ConstantCycleId,
		mdMsg: `
# Constants refer to each other in a loop!

A constant in a ` + "`__`" + ` entry resolves, through other constants, back to itself.

## Things you can try:
- Give one constant of the loop a number:
~~~yaml
__:
  a: b
  b: 42
~~~`,
	}

	invalidResourceLocationIssue = &Issue{
		id: InvalidResourceLocationId,
		mdMsg: `
# Invalid resource location!

Items and models are written as ` + "`namespace:path`" + ` or just ` + "`path`" + `
(namespace ` + "`minecraft`" + `). Neither part may be empty.

## Examples:
- ` + "`stick`" + `
- ` + "`minecraft:stick`" + `
- ` + "`mymod:item/wand`",
		extLinks: []HttpLink{"https://minecraft.wiki/w/Resource_location"},
	}

	archiveOpenFailedIssue = &Issue{
		id: ArchiveOpenFailedId,
		mdMsg: `
# Could not open the game archive!

resc reads vanilla item models from the client .jar, or from a directory
holding its extracted contents.

## Things you can try:
- Point to the versioned client jar, for example:
~~~
$ resc ~/.minecraft/versions/1.20.4/1.20.4.jar models.yaml
~~~
- Check that the file is a valid zip archive`,
	}

	archiveEntryMissingIssue = &Issue{
		id: ArchiveEntryMissingId,
		mdMsg: `
# Item model not found in the archive!

An item in the description has no model at
` + "`assets/<namespace>/models/item/<name>.json`" + ` in the archive.

## Things you can try:
- Check the item name for typos
- Use the item id, not its display name
- Make sure the archive is the game version the item exists in`,
		extLinks: []HttpLink{"https://minecraft.wiki/w/Model"},
	}

	modelDocumentMalformedIssue = &Issue{
		id: ModelDocumentMalformedId,
		mdMsg: `
# Vanilla model could not be read!

A model read from the archive is not a JSON object, or its ` + "`overrides`" + `
field is not a list.

## Things you can try:
- Re-download the game version
- If the archive is a directory, check that the file was not edited by hand`,
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Failed to write the resource pack!

Files written before the failure are left in place.

## Things you can try:
- Check permissions of the output directory
- Check free disk space
- Choose another directory with --output`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Show the effective configuration:
~~~
$ resc config show
~~~
- Rewrite a fresh configuration file:
~~~
$ resc config init
~~~`,
	}

	issues = map[Id]*Issue{
		descriptionNotFoundIssue.Id():     descriptionNotFoundIssue,
		descriptionParseErrorIssue.Id():   descriptionParseErrorIssue,
		constantCycleIssue.Id():           constantCycleIssue,
		invalidResourceLocationIssue.Id(): invalidResourceLocationIssue,
		archiveOpenFailedIssue.Id():       archiveOpenFailedIssue,
		archiveEntryMissingIssue.Id():     archiveEntryMissingIssue,
		modelDocumentMalformedIssue.Id():  modelDocumentMalformedIssue,
		outputWriteFailedIssue.Id():       outputWriteFailedIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
	}
)

// Values returns every catalogued issue, ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id - b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
