package plan

import "fmt"

// resourceBundleName is the on-disk bundle name for a target's resources:
// <package>_<target>.bundle next to the built binary.
func resourceBundleName(packageName, targetName string) string {
	return packageName + "_" + targetName + ".bundle"
}

// resourceAccessorSource synthesizes the derived source that exposes
// Bundle.module to the target. Lookup happens at run time, relative to the
// running binary, never at compile time: the bundle's final location is only
// known once the product is installed.
func resourceAccessorSource(packageName, targetName string) string {
	bundle := resourceBundleName(packageName, targetName)
	return fmt.Sprintf(`import Foundation

extension Foundation.Bundle {
    static let module: Bundle = {
        let mainPath = Bundle.main.bundleURL.appendingPathComponent(%[1]q).path
        let buildPath = URL(fileURLWithPath: #filePath)
            .deletingLastPathComponent()
            .deletingLastPathComponent()
            .appendingPathComponent(%[1]q).path

        let preferredBundle = Bundle(path: mainPath)

        guard let bundle = preferredBundle ?? Bundle(path: buildPath) else {
            fatalError("could not load resource bundle: from \(mainPath) or \(buildPath)")
        }

        return bundle
    }()
}
`, bundle)
}
