package sanity

// GROQ queries. $category is always bound; an empty string disables the
// category predicate.
const (
	articleFields = `
		_id,
		title,
		"slug": slug.current,
		excerpt,
		publishedAt,
		featured,
		readingTime,
		"imageUrl": mainImage.asset->url,
		"author": author->name,
		"categories": categories[]->slug.current,
		"tags": tags[]->title`

	toolFields = `
		_id,
		_createdAt,
		name,
		"slug": slug.current,
		shortDescription,
		category,
		priceType,
		price,
		discount,
		rating,
		featured,
		usersCount,
		affiliateUrl,
		"iconUrl": icon.asset->url,
		tags`

	publishedArticles = `_type == "article" && defined(slug.current) && publishedAt <= now()`
	activeTools       = `_type == "aiTool" && defined(slug.current) && isActive != false`

	articlesQuery = `*[` + publishedArticles + ` && ($category == "" || $category in categories[]->slug.current)] | order(publishedAt desc) {` + articleFields + `}`

	toolsQuery = `*[` + activeTools + ` && ($category == "" || category == $category)] | order(order asc, name asc) {` + toolFields + `}`

	articleBySlugQuery = `*[` + publishedArticles + ` && slug.current == $slug][0]{` + articleFields + `,
		body[]{..., "url": asset->url}
	}`

	toolBySlugQuery = `*[` + activeTools + ` && slug.current == $slug][0]{` + toolFields + `}`

	categoriesQuery = `*[_type == "category" && defined(slug.current)] | order(title asc) {
		_id,
		title,
		"slug": slug.current,
		description
	}`

	healthQuery = `*[_type == "article"][0]._id`
)
