// Package relationship resolves reference fields: fields whose value is one or
// more identifiers of records kept in an external store.
//
// A Fieldtype wraps one relationship kind (entries, terms, users, ...) and
// provides the full round trip for fields of that kind:
//
//   - ToCanonical and ToStored convert between the stored shape (nil, a scalar
//     identifier, or a sequence) and the canonical working sequence.
//   - Augment resolves identifiers through the kind's IdentifierResolver and
//     DisplayRows turns the results into widget rows, keeping unresolvable
//     identifiers as invalid rows instead of failing.
//   - Translate maps a listing request onto a store query.
//   - ResolvePolicies combines the kind's fixed and delegated capability
//     policies with a field's configuration.
//   - Preload assembles the single payload the selection widget boots from.
//
// The package holds no state between calls. Everything that reaches the
// record store takes a context.Context owned by the caller.
package relationship
