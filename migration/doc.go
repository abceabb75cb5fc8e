/*
Package migration provides tooling necessary for working with schema versioned
entities.

Every versioned model carries a metadata header with its schema version. An
extension registers, in its package init, a data migration function for every
version that changes the layout of an entity:

	func init() {
		migration.MustRegister(2, &Package{}, migratePackageToV2)
	}

Apply brings a loaded entity up to the requested version by running, in
order, every registered migration between the entity schema and the target.
Versions without a registered migration do not change the data, only the
header is updated.
*/
package migration
