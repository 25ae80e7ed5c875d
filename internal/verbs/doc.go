// Package verbs builds multi-verb command-line tools on top of Cobra.
//
// Hosts register verb descriptors in a Registry at startup, then CreateSubcommands turns the
// registered verbs into Cobra subcommands and collects each verb's argument preprocessor.
// SplitArgumentsByVerb separates the raw argument list into pre-verb flags, the verb, and the
// post-verb arguments so that a preprocessor can rewrite the latter before Cobra parses them.
package verbs
