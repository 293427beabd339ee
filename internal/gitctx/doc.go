// Package gitctx is the version-control collaborator of cortex.
//
// [Repository] is the narrow interface the staging and commit steps consume;
// [ExecRepository] implements it by shelling out to git in a working
// directory. [ParseStatus] turns porcelain status output into the buckets
// the staging step needs, [DiffOptions] builds diff arguments with exclusion
// pathspecs, and [CommitLink] turns a remote URL and hash into a browsable
// commit link for GitHub, GitLab and Bitbucket remotes.
package gitctx
