package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:view",
		"attempt:create",
		"attempt:view-own",
		"video:view",
		"book:view",
		"payment:initiate",
		"payment:confirm",
		"payment:view-own",
		"ai:chat",
		"user:change_password",
	},
	"teacher": {
		"quiz:create",
		"quiz:update-own",
		"quiz:delete-own",
		"quiz:view",
		"video:create",
		"video:update-own",
		"video:delete-own",
		"video:view",
		"book:create",
		"book:update-own",
		"book:delete-own",
		"book:view",
		"attempt:view-all",
		"payment:view-all",
		"ai:chat",
		"ai:quizgen",
		"users:list",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
