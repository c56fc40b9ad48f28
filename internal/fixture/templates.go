package fixture

const loginHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Sign in</title>
</head>
<body data-page="login">
  <h1>Sign in to your account</h1>
  <form method="post" action="/login">
    <label for="email">Email</label>
    <input id="email" name="email" type="email" autocomplete="email">
    <label for="password">Password</label>
    <input id="password" name="password" type="password" autocomplete="current-password">
    <button type="submit">Sign in</button>
  </form>
  {% if error %}<div id="error-message" role="alert">{{ error }}</div>{% endif %}
</body>
</html>
`

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Dashboard</title>
</head>
<body data-page="dashboard">
  <h1>My Courses</h1>
  <form id="dashboard-search" action="/dashboard" method="get">
    <input id="dashboard-search-input" name="search" type="text" value="{{ query }}" placeholder="Search your courses">
    <button type="submit" class="search-button">Search</button>
  </form>
  <ul class="listing-courses">
    {% for course in courses %}<li class="course-item" data-course-id="{{ course.ID }}"><h3 class="course-title">{{ course.Title }}</h3></li>
    {% endfor %}
  </ul>
  {% if throw_error %}<script>setTimeout(function () { throw new Error("dashboard widget exploded"); }, 0);</script>{% endif %}
</body>
</html>
`
