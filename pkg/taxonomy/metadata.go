package taxonomy

import "github.com/macropower/aspects/pkg/aspect"

// Names of the built-in Metadata aspects.
const (
	Metadata       = "Metadata"
	CommitMessage  = "CommitMessage"
	Emptiness      = "Emptiness"
	Shortlog       = "Shortlog"
	ColonExistence = "ColonExistence"
	TrailingPeriod = "TrailingPeriod"
	Tense          = "Tense"
	ShortlogLength = "ShortlogLength"
	FirstCharacter = "FirstCharacter"
	Body           = "Body"
	Existence      = "Existence"
	BodyLength     = "BodyLength"
)

// Shortlog tenses accepted by the shortlog_tense taste.
const (
	TenseImperative        = "imperative"
	TensePresentContinuous = "present continuous"
	TensePast              = "past"
)

var lineLengths = []int64{50, 72, 80}

var metadataAspects = []declaration{
	{
		name:   Metadata,
		parent: RootName,
		description: `
			This describes any aspect that is related to metadata that is not
			inside your source code.
		`,
		docs: aspect.MustDocs(
			"Commit message, commit message shortlog, commit message body, etc...",
			aspect.LanguageAll,
			`
			Writing good documentation on each changes we make on our code is
			always a good idea because it makes it easy to identify what went
			wrong, what change breaks things or introduce code smells etc...
			`,
			`
			Enforcing good committing convention to make things consistence, can
			be a fix for this.
			`,
		),
	},
	{
		name:   CommitMessage,
		parent: Metadata,
		description: `
			Your commit message the documentation associated with your source code.
		`,
		docs: aspect.MustDocs(
			"YapfBear: Add `YapfBear`",
			"English",
			`
			Good commit messages can help you to identify bugs (e.g. through
			`+"`git bisect`"+`) or find missing information about unknown source code
			(through `+"`git blame`"+`).

			Commit messages are also sometimes used to generate - or write
			manually - release notes.
			`,
			"Enforce the use of commit messages.",
		),
	},
	{
		name:   Emptiness,
		parent: CommitMessage,
		description: `
			Your commit message serves as important documentation for your source
			code.
		`,
		docs: aspect.MustDocs(
			"(no text at all)",
			"English",
			`
			An empty commit message shows the lack of documentation for your
			change.
			`,
			"Write a commit message.",
		),
	},
	{
		name:        Shortlog,
		parent:      CommitMessage,
		description: "Your commit shortlog is the first line of your commit message.",
		docs: aspect.MustDocs(
			"FIX: Describe change further",
			"English",
			`
			It is the most crucial part and summarizes the change in the shortest
			possible manner.
			`,
			"Enforce concise, meaningful and clear commit messages' shortlogs.",
		),
	},
	{
		name:   ColonExistence,
		parent: Shortlog,
		description: `
			Some projects force to use colons in the commit message shortlog
			(first line).
		`,
		docs: aspect.MustDocs(
			`
			FIX: Describe change further
			context: Describe change further
			`,
			"English",
			`
			The colon can be a useful separator for a context (e.g. a filename) so
			the commit message makes more sense to the reader or a classification
			(e.g. FIX, ...) or others. Some projects prefer not using colons
			specifically: consistency is key.
			`,
			"Add or remove the colon according to the commit message guidelines.",
		),
		tastes: []*aspect.Taste{
			aspect.MustTaste(aspect.BoolTaste(
				"shortlog_colon",
				"Whether or not the shortlog has to contain a colon.",
				true,
			)),
		},
	},
	{
		name:   TrailingPeriod,
		parent: Shortlog,
		description: `
			Some projects force not to use trailing periods in the commit
			message shortlog (first line).
		`,
		docs: aspect.MustDocs(
			`
			Describe change.
			Describe change
			`,
			"English",
			`
			Consistency is key to make messages more readable. Removing a trailing
			period can also make the message shorter by a character.
			`,
			`
			Add or remove the trailing period according to the commit message
			guidelines.
			`,
		),
		tastes: []*aspect.Taste{
			aspect.MustTaste(aspect.BoolTaste(
				"shortlog_period",
				"Whether or not the shortlog has to contain a trailing period.",
				false,
			)),
		},
	},
	{
		name:   Tense,
		parent: Shortlog,
		description: `
			Most projects have a convention on which tense to use in the commit
			shortlog (the first line of the commit message).
		`,
		docs: aspect.MustDocs(
			`
			Add file
			Adding file
			Added file
			`,
			"English",
			"Consistency is key to make messages more readable.",
			"Rephrase the shortlog into the right tense.",
		),
		tastes: []*aspect.Taste{
			aspect.MustTaste(aspect.EnumTaste(
				"shortlog_tense",
				"The tense of the shortlog.",
				[]string{TenseImperative, TensePresentContinuous, TensePast},
				TenseImperative,
			)),
		},
	},
	{
		name:        ShortlogLength,
		parent:      Shortlog,
		description: "The length of your commit message shortlog (first line).",
		docs: aspect.MustDocs(
			`
			Some people just write very long commit messages. Too long.
			Even full sentences. And more of them, too!
			`,
			"English",
			`
			A good commit message should be quick to read and concise. Also, git
			and platforms like GitHub do cut away everything beyond 72, sometimes
			even 50 characters making any longer message unreadable.
			`,
			`
			Try to compress your message:

			- Using imperative tense usually saves a character or two
			- Omitting a trailing period saves another character
			- Leave out unneeded words or details
			- Use common abbreviations like w/, w/o or &.
			`,
		),
		tastes: []*aspect.Taste{
			aspect.MustTaste(aspect.IntTaste(
				"max_shortlog_length",
				"The maximal number of characters the shortlog may contain.",
				lineLengths,
				72,
			)),
		},
	},
	{
		name:   FirstCharacter,
		parent: Shortlog,
		description: `
			The first character of your commit message shortlog (first line) usually
			should be upper or lower case consistently.

			If the commit message contains a colon, only the first character after
			the colon will be checked.
		`,
		docs: aspect.MustDocs(
			`
			Add coverage pragma
			Compatability: Add coverage pragma
			add coverage pragma
			Compatability: add coverage pragma
			`,
			"English",
			"Consistent commit messages are easier to read through.",
			`
			Convert your first character to upper/lower case. If your message starts
			with an identifier, consider rephrasing. Usually starting with a verb is
			a good idea.
			`,
		),
		tastes: []*aspect.Taste{
			aspect.MustTaste(aspect.BoolTaste(
				"shortlog_starts_upper_case",
				"Whether or not the shortlog (first line) of a commit message should "+
					"start with an upper case letter consistently.",
				true,
			)),
		},
	},
	{
		name:        Body,
		parent:      CommitMessage,
		description: "Your commit body may contain an elaborate description of your commit.",
		docs: aspect.MustDocs(
			`
			CI: Revert requests breakage workaround

			# This is the commit message body

			This reverts "CI: Workaround requests un-vendoring of chardet"
			commit 638bff9cd85bedb7e2e8c6184b41f547eca4f97c.

			The broken bear VintBear has been disabled.

			Related to https://github.com/coala/coala/issues/4277
			`,
			"English",
			`
			Sometimes the commit message shortlog do not give enough information
			on the code, in that case it is a good idea to have give some more
			information in the commit message body.
			`,
			"Enforce detailed, clear and meaningful commit messages' bodies.",
		),
	},
	{
		name:        Existence,
		parent:      Body,
		description: "Forces the commit message body to exist (nonempty).",
		docs: aspect.MustDocs(
			"aspects: Add CommitMessage.Body",
			"English",
			`
			Having a nonempty commit body is important if you consistently want
			elaborate documentation on all commits.
			`,
			"Write a commit message with a body.",
		),
	},
	{
		name:        BodyLength,
		parent:      Body,
		description: "The length of your commit message body lines.",
		docs: aspect.MustDocs(
			`
			Some people just write very long commit messages. Too long.
			Way too much actually. If they would just break their lines!
			`,
			"English",
			`
			Git and platforms like GitHub usually break everything beyond 72
			characters, making a message containing longer lines hard to read.
			`,
			"Simply break your lines right before you hit the border.",
		),
		tastes: []*aspect.Taste{
			aspect.MustTaste(aspect.IntTaste(
				"max_body_length",
				"The maximal number of characters the body may contain in one line. "+
					"The newline character at each line end does not count to that length.",
				lineLengths,
				72,
			)),
		},
	},
}
